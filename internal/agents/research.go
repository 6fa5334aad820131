package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/amara/inkflow/internal/models"
	"github.com/amara/inkflow/internal/stage"
)

// Per-category caps on extracted research items.
const (
	maxFacts         = 10
	maxControversies = 6
	maxTrends        = 7
	maxGaps          = 5
	maxQuotes        = 4
	maxSources       = 10
)

var (
	controversyKeywords = []string{
		"however", "critics", "criticism", "debate", "controversial",
		"disagree", "argue", "concern", "problem", "challenge",
	}
	trendKeywords = []string{
		"trend", "emerging", "future", "growing", "increasing",
		"new", "innovation", "latest", "2025", "upcoming",
	}
	gapKeywords = []string{
		"overlooked", "rarely", "often ignored", "underreported",
		"few discuss", "missing", "gap", "neglected",
	}
	expertIndicators = []string{
		"according to", "expert", "researcher", "professor",
		"ceo", "founder", "analyst", "study shows",
	}
)

// ResearchStage performs deep topic research through the search provider:
// four themed searches plus an expert-opinion pass, keyword extraction per
// category, source dedup, and the provider's answer text as the summary.
// The stage's output is the ResearchData JSON the downstream stages consume.
type ResearchStage struct {
	Client SearchClient
}

// Name implements stage.Stage.
func (s *ResearchStage) Name() models.StageName { return models.StageResearch }

// Execute researches the topic given as input and returns ResearchData JSON.
func (s *ResearchStage) Execute(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("%w: topic is empty", stage.ErrInvalidInput)
	}
	general, err := s.Client.Search(ctx, fmt.Sprintf("%s latest facts statistics data 2024 2025", topic), 10, true)
	if err != nil {
		return "", fmt.Errorf("facts search failed: %w", err)
	}
	controversy, err := s.Client.Search(ctx, fmt.Sprintf("%s controversies debates criticisms challenges problems", topic), 8, false)
	if err != nil {
		return "", fmt.Errorf("controversy search failed: %w", err)
	}
	trends, err := s.Client.Search(ctx, fmt.Sprintf("%s trends 2025 future emerging latest innovations", topic), 8, false)
	if err != nil {
		return "", fmt.Errorf("trends search failed: %w", err)
	}
	gaps, err := s.Client.Search(ctx, fmt.Sprintf("%s overlooked underreported unique perspective niche angles", topic), 8, false)
	if err != nil {
		return "", fmt.Errorf("gaps search failed: %w", err)
	}
	experts, err := s.Client.Search(ctx, fmt.Sprintf("%s expert opinion research study analysis report", topic), 8, false)
	if err != nil {
		return "", fmt.Errorf("expert search failed: %w", err)
	}

	summary := general.Answer
	if summary == "" {
		summary = fmt.Sprintf("Comprehensive research on %s", topic)
	}

	data := models.ResearchData{
		Topic:                   topic,
		FactsAndStats:           extractFacts(general.Results),
		ControversiesAndDebates: extractByKeywords(controversy.Results, controversyKeywords, maxControversies),
		TrendingAngles:          extractByKeywords(trends.Results, trendKeywords, maxTrends),
		ContentGaps:             extractByKeywords(gaps.Results, gapKeywords, maxGaps),
		ExpertQuotes:            extractByKeywords(experts.Results, expertIndicators, maxQuotes),
		Sources:                 compileSources(general.Results, controversy.Results, trends.Results, gaps.Results),
		ResearchSummary:         summary,
	}

	out, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode research data: %w", err)
	}
	return string(out), nil
}

// extractFacts keeps sentences carrying numbers or percentages, which tend
// to be concrete facts and statistics.
func extractFacts(results []SearchResult) []string {
	var facts []string
	for i, r := range results {
		if i >= 7 {
			break
		}
		for _, sentence := range splitSentences(r.Content) {
			if hasDigit(sentence) || strings.Contains(sentence, "%") {
				facts = append(facts, sentence)
				if len(facts) >= maxFacts {
					return facts
				}
			}
		}
	}
	return facts
}

// extractByKeywords keeps sentences containing any of the keywords, up to
// the cap.
func extractByKeywords(results []SearchResult, keywords []string, limit int) []string {
	var matches []string
	for _, r := range results {
		for _, sentence := range splitSentences(r.Content) {
			lower := strings.ToLower(sentence)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					matches = append(matches, sentence)
					break
				}
			}
			if len(matches) >= limit {
				return matches
			}
		}
	}
	return matches
}

// compileSources dedups sources across the themed searches by URL.
func compileSources(resultSets ...[]SearchResult) []models.Source {
	var sources []models.Source
	seen := make(map[string]bool)
	for _, set := range resultSets {
		for _, r := range set {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			title := r.Title
			if title == "" {
				title = "Unknown"
			}
			sources = append(sources, models.Source{Title: title, URL: r.URL})
			seen[r.URL] = true
			if len(sources) >= maxSources {
				return sources
			}
		}
	}
	return sources
}

func splitSentences(content string) []string {
	parts := strings.Split(content, ". ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
