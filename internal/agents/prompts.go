package agents

import (
	"fmt"
	"strings"

	"github.com/amara/inkflow/internal/models"
)

// BuildWriterPrompt formats research data into the writer's input prompt.
func BuildWriterPrompt(research *models.ResearchData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a complete blog post about: %s\n\n", research.Topic)
	b.WriteString("=== RESEARCH DATA ===\n")

	writeSection(&b, "FACTS & STATISTICS", research.FactsAndStats)
	writeSection(&b, "CONTROVERSIES & DEBATES", research.ControversiesAndDebates)
	writeSection(&b, "TRENDING ANGLES", research.TrendingAngles)
	writeSection(&b, "CONTENT GAPS (your edge - what others miss)", research.ContentGaps)
	writeSection(&b, "EXPERT PERSPECTIVES", research.ExpertQuotes)

	if research.ResearchSummary != "" {
		fmt.Fprintf(&b, "\nRESEARCH SUMMARY:\n%s\n", research.ResearchSummary)
	}
	if len(research.Sources) > 0 {
		fmt.Fprintf(&b, "\nSOURCES (%d):\n", len(research.Sources))
		for _, s := range research.Sources {
			fmt.Fprintf(&b, "- %s (%s)\n", s.Title, s.URL)
		}
	}

	return b.String()
}

func writeSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

// AppendRewriteFeedback seeds the next round's writer prompt with the
// previous round's evaluator feedback.
func AppendRewriteFeedback(prompt, feedback string) string {
	return fmt.Sprintf("%s\n\nPREVIOUS FEEDBACK:\n%s\n\nRewrite addressing all issues.", prompt, feedback)
}

// BuildEvaluationPrompt formats a draft and its research context for the
// evaluator. previousScore > 0 adds the must-improve block so the evaluator
// can enforce its non-decreasing score contract.
func BuildEvaluationPrompt(draft string, research *models.ResearchData, previousScore float64) string {
	var b strings.Builder

	b.WriteString("Evaluate this blog content and decide if it's good enough to publish.\n\n")
	b.WriteString("=== CONTENT TO EVALUATE ===\n\n")
	fmt.Fprintf(&b, "Word Count: %d\n\n", len(strings.Fields(draft)))
	fmt.Fprintf(&b, "Content:\n%s\n\n", draft)

	b.WriteString("=== CONTEXT ===\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", research.Topic)
	fmt.Fprintf(&b, "Research Sources Used: %d\n", len(research.Sources))

	if previousScore > 0 {
		b.WriteString("\n=== PREVIOUS ATTEMPT ===\n\n")
		fmt.Fprintf(&b, "Previous Score: %.1f/10\n\n", previousScore)
		fmt.Fprintf(&b, "CRITICAL: This rewrite MUST score HIGHER than %.1f.\n", previousScore)
	}

	b.WriteString("\nScore each dimension, compute the weighted overall score, approve at 7.0 or above, and return the evaluation JSON.\n")

	return b.String()
}

// BuildSocialPrompt formats the best draft for the social repurposing agent.
func BuildSocialPrompt(masterContent, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repurpose this master content for social media. Topic: %s\n\n", topic)
	b.WriteString("=== MASTER CONTENT ===\n\n")
	b.WriteString(masterContent)
	b.WriteString("\n\nCreate the TikTok script, LinkedIn post and Instagram caption, and return the JSON.\n")
	return b.String()
}
