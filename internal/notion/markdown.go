package notion

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FlattenMarkdown strips markdown formatting, returning plain paragraphs
// separated by blank lines. Notion paragraph blocks carry no inline markup,
// so headings, emphasis and links are reduced to their text content.
func FlattenMarkdown(source string) string {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var paragraphs []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			paragraphs = append(paragraphs, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Heading, *ast.Paragraph, *ast.ListItem:
				flush()
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			current.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				current.WriteByte(' ')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			flush()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				current.Write(seg.Value(src))
			}
			flush()
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	flush()

	return strings.Join(paragraphs, "\n\n")
}
