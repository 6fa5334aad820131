package models

import "testing"

func TestWeightedScore(t *testing.T) {
	tests := []struct {
		name string
		eval Evaluation
		want float64
	}{
		{
			name: "worked example from the scoring guide",
			eval: Evaluation{AuthenticityScore: 7, QualityScore: 8, CompletenessScore: 7, DepthScore: 7},
			want: 7.3,
		},
		{
			name: "all zeros",
			eval: Evaluation{},
			want: 0,
		},
		{
			name: "all tens",
			eval: Evaluation{AuthenticityScore: 10, QualityScore: 10, CompletenessScore: 10, DepthScore: 10},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.eval.WeightedScore()
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("WeightedScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConsistent(t *testing.T) {
	tests := []struct {
		name    string
		overall float64
		want    bool
	}{
		{name: "exact", overall: 7.3, want: true},
		{name: "within tolerance", overall: 7.34, want: true},
		{name: "rounding down within tolerance", overall: 7.26, want: true},
		{name: "outside tolerance", overall: 7.4, want: false},
		{name: "wildly off", overall: 2.0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluation{
				AuthenticityScore: 7, QualityScore: 8, CompletenessScore: 7, DepthScore: 7,
				OverallScore: tt.overall,
			}
			if got := eval.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v (overall %v vs weighted %v)",
					got, tt.want, tt.overall, eval.WeightedScore())
			}
		})
	}
}

func TestDraftAttemptScore(t *testing.T) {
	var nilAttempt *DraftAttempt
	if got := nilAttempt.Score(); got != 0 {
		t.Errorf("nil attempt Score() = %v, want 0", got)
	}

	unevaluated := &DraftAttempt{Round: 1, Draft: "text"}
	if got := unevaluated.Score(); got != 0 {
		t.Errorf("unevaluated Score() = %v, want 0", got)
	}

	evaluated := &DraftAttempt{Round: 2, Draft: "text", Evaluation: &Evaluation{OverallScore: 8.1}}
	if got := evaluated.Score(); got != 8.1 {
		t.Errorf("Score() = %v, want 8.1", got)
	}
}

func TestRunRecordStageStatus(t *testing.T) {
	record := RunRecord{
		Stages: map[StageName]StageStatus{
			StageResearch: StatusSucceeded,
			StageSocial:   StatusFailed,
		},
	}

	if got := record.StageStatus(StageResearch); got != StatusSucceeded {
		t.Errorf("StageStatus(research) = %s, want %s", got, StatusSucceeded)
	}
	if got := record.StageStatus(StageSocial); got != StatusFailed {
		t.Errorf("StageStatus(social) = %s, want %s", got, StatusFailed)
	}
	// Stages the run never reached read as skipped.
	if got := record.StageStatus(StageSchedule); got != StatusSkipped {
		t.Errorf("StageStatus(schedule) = %s, want %s", got, StatusSkipped)
	}
}
