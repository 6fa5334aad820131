package models

import "math"

// Weights applied to the four evaluation dimensions when computing the
// overall score.
const (
	WeightAuthenticity = 0.4
	WeightQuality      = 0.3
	WeightCompleteness = 0.2
	WeightDepth        = 0.1
)

// ScoreTolerance is the permitted rounding drift between the evaluator's
// reported overall score and the score recomputed from the dimensions.
const ScoreTolerance = 0.05

// Evaluation is the evaluator stage's verdict on one draft. Immutable once
// produced; a new Evaluation is created per draft round.
type Evaluation struct {
	AuthenticityScore float64  `json:"authenticity_score"`
	QualityScore      float64  `json:"quality_score"`
	CompletenessScore float64  `json:"completeness_score"`
	DepthScore        float64  `json:"depth_score"`
	OverallScore      float64  `json:"overall_score"`
	Approved          bool     `json:"approved"`
	NeedsRewrite      bool     `json:"needs_rewrite"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	SpecificFeedback  string   `json:"specific_feedback"`
}

// WeightedScore recomputes the overall score from the four dimensions.
func (e *Evaluation) WeightedScore() float64 {
	return e.AuthenticityScore*WeightAuthenticity +
		e.QualityScore*WeightQuality +
		e.CompletenessScore*WeightCompleteness +
		e.DepthScore*WeightDepth
}

// Consistent reports whether the stored overall score matches the weighted
// recomputation within ScoreTolerance.
func (e *Evaluation) Consistent() bool {
	return math.Abs(e.OverallScore-e.WeightedScore()) <= ScoreTolerance
}

// DraftAttempt is one evaluated round of the draft loop. Evaluation is nil
// when the evaluate call itself failed for that round.
type DraftAttempt struct {
	Round      int
	Draft      string
	Evaluation *Evaluation
}

// Score returns the attempt's overall score, or 0 when unevaluated.
func (a *DraftAttempt) Score() float64 {
	if a == nil || a.Evaluation == nil {
		return 0
	}
	return a.Evaluation.OverallScore
}
