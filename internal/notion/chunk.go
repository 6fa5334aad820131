package notion

import "strings"

// notion rejects rich text over 2000 characters per block; stay under it.
const maxChunkChars = 1900

// ChunkContent splits text into block-sized chunks, preferring paragraph
// boundaries and falling back to sentence boundaries for oversized
// paragraphs.
func ChunkContent(content string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
	}

	for _, para := range strings.Split(content, "\n\n") {
		if current.Len()+len(para)+2 < maxChunkChars {
			current.WriteString(para)
			current.WriteString("\n\n")
			continue
		}
		flush()

		if len(para) <= maxChunkChars {
			current.WriteString(para)
			current.WriteString("\n\n")
			continue
		}

		// Oversized paragraph: split on sentence boundaries.
		var piece strings.Builder
		for _, sentence := range strings.SplitAfter(para, ". ") {
			if piece.Len()+len(sentence) >= maxChunkChars {
				if trimmed := strings.TrimSpace(piece.String()); trimmed != "" {
					chunks = append(chunks, trimmed)
				}
				piece.Reset()
			}
			piece.WriteString(sentence)
		}
		if piece.Len() > 0 {
			current.WriteString(piece.String())
			current.WriteString("\n\n")
		}
	}
	flush()

	return chunks
}
