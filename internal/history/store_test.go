package history

import (
	"context"
	"testing"
	"time"

	"github.com/amara/inkflow/internal/models"
)

func testRecord(runID, topic string, score float64, started time.Time) *models.RunRecord {
	return &models.RunRecord{
		RunID:      runID,
		Topic:      topic,
		StartedAt:  started,
		FinishedAt: started.Add(5 * time.Minute),
		BestDraft:  "draft",
		Evaluation: &models.Evaluation{
			OverallScore: score,
			Approved:     score >= 7.0,
		},
		Stages: map[models.StageName]models.StageStatus{
			models.StageResearch: models.StatusSucceeded,
			models.StageWrite:    models.StatusSucceeded,
		},
	}
}

func TestStoreRecordAndRecall(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	if err := store.RecordRun(ctx, testRecord("run-1", "Remote Work", 8.2, base)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.RecordRun(ctx, testRecord("run-2", "AI Agents", 6.4, base.Add(time.Hour))); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Errorf("newest first: got %s", runs[0].RunID)
	}
	if runs[1].Topic != "Remote Work" {
		t.Errorf("topic = %q", runs[1].Topic)
	}
	if runs[1].OverallScore != 8.2 {
		t.Errorf("score = %v", runs[1].OverallScore)
	}
	if !runs[1].Approved {
		t.Error("run-1 should be approved")
	}
	if runs[0].Approved {
		t.Error("run-2 should not be approved")
	}
	if runs[0].Stages[models.StageResearch] != models.StatusSucceeded {
		t.Errorf("stage statuses not round-tripped: %v", runs[0].Stages)
	}
}

func TestStoreTopicRuns(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	for i, topic := range []string{"Remote Work", "AI Agents", "Remote Work"} {
		rec := testRecord(string(rune('a'+i)), topic, 7.0, base.Add(time.Duration(i)*time.Hour))
		if err := store.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := store.TopicRuns(ctx, "Remote Work")
	if err != nil {
		t.Fatalf("TopicRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "c" {
		t.Errorf("newest first: got %s", runs[0].RunID)
	}
}

func TestStoreRecordsAbortedRun(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	rec := &models.RunRecord{
		RunID:         "run-x",
		Topic:         "Remote Work",
		StartedAt:     time.Now(),
		FinishedAt:    time.Now(),
		FailureReason: "research failed",
		Stages: map[models.StageName]models.StageStatus{
			models.StageResearch: models.StatusFailed,
		},
	}
	if err := store.RecordRun(context.Background(), rec); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := store.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if runs[0].OverallScore != 0 || runs[0].Approved {
		t.Error("aborted run should have zero score and no approval")
	}
	if runs[0].FailureReason != "research failed" {
		t.Errorf("failure reason = %q", runs[0].FailureReason)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := testRecord(string(rune('a'+i)), "t", 7.0, base.Add(time.Duration(i)*time.Minute))
		if err := store.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs, want 3", len(runs))
	}
}
