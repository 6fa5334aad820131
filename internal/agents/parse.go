package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amara/inkflow/internal/models"
)

// stripCodeFence removes a surrounding markdown code fence if a model
// wrapped its JSON despite instructions.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// DecodeEvaluation parses the evaluator's JSON verdict.
func DecodeEvaluation(raw string) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &eval); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation: %w", err)
	}
	// An evaluator that reports no overall score but scored the dimensions
	// still yields a usable verdict.
	if eval.OverallScore == 0 && eval.WeightedScore() > 0 {
		eval.OverallScore = eval.WeightedScore()
	}
	return &eval, nil
}

// DecodeResearch parses the research stage's JSON output.
func DecodeResearch(raw string) (*models.ResearchData, error) {
	var data models.ResearchData
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &data); err != nil {
		return nil, fmt.Errorf("failed to decode research data: %w", err)
	}
	if data.Topic == "" {
		return nil, fmt.Errorf("research data missing topic")
	}
	return &data, nil
}

// DecodeSocial parses the social agent's JSON output.
func DecodeSocial(raw string) (*models.SocialContent, error) {
	var content models.SocialContent
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &content); err != nil {
		return nil, fmt.Errorf("failed to decode social content: %w", err)
	}
	return &content, nil
}
