package models

import "time"

// RunRecord is the aggregate result of one pipeline run. Research and draft
// failures abort the run and leave only Topic, FailureReason and the status
// map populated; downstream failures leave the record partially filled.
type RunRecord struct {
	RunID      string
	Topic      string
	StartedAt  time.Time
	FinishedAt time.Time

	BestDraft  string
	Evaluation *Evaluation

	Social   *SocialContent
	Storage  *StorageResult
	Schedule *ScheduleResult

	// Stages maps each stage that was considered to its terminal status.
	Stages map[StageName]StageStatus

	// FailureReason is set when the run aborted before producing a draft.
	FailureReason string
}

// Succeeded reports whether the run produced an approved-or-best draft.
func (r *RunRecord) Succeeded() bool {
	return r.BestDraft != "" && r.Evaluation != nil
}

// StageStatus returns the recorded status for a stage, or StatusSkipped for
// stages the run never reached.
func (r *RunRecord) StageStatus(name StageName) StageStatus {
	if status, ok := r.Stages[name]; ok {
		return status
	}
	return StatusSkipped
}

// Duration returns the wall-clock duration of the run.
func (r *RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
