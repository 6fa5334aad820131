package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amara/inkflow/internal/agents"
	"github.com/amara/inkflow/internal/config"
	"github.com/amara/inkflow/internal/models"
	"github.com/amara/inkflow/internal/stage"
)

var (
	// ErrEmptyTopic is returned when Run is given a blank topic.
	ErrEmptyTopic = errors.New("pipeline: topic is empty")

	// ErrNoDraft is returned when every draft round failed or scored zero.
	ErrNoDraft = errors.New("pipeline: no evaluated draft produced")
)

// Coordinator wires the stages into one run. Research and drafting are
// load-bearing: their failure aborts the run. Social, storage and scheduling
// degrade instead, leaving the run record partially filled.
type Coordinator struct {
	Invoker *stage.Invoker

	Research stage.Stage
	Write    stage.Stage
	Evaluate stage.Stage
	Social   stage.Stage
	Storage  stage.Stage
	Schedule stage.Stage

	Config *config.Config
	Log    Logger

	// Now and NewRunID exist for tests.
	Now      func() time.Time
	NewRunID func() string
}

// NewCoordinator builds a Coordinator over the given stages.
func NewCoordinator(inv *stage.Invoker, cfg *config.Config, log Logger) *Coordinator {
	return &Coordinator{
		Invoker:  inv,
		Config:   cfg,
		Log:      log,
		Now:      time.Now,
		NewRunID: uuid.NewString,
	}
}

// Run executes the full pipeline for one topic and returns the run record.
// The record is non-nil whenever the topic was accepted, including aborted
// runs.
func (c *Coordinator) Run(ctx context.Context, topic string) (*models.RunRecord, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	log := c.Log
	if log == nil {
		log = noopLogger{}
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	newID := c.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}

	rec := &models.RunRecord{
		RunID:     newID(),
		Topic:     topic,
		StartedAt: now(),
		Stages:    make(map[models.StageName]models.StageStatus),
	}
	finish := func() {
		rec.FinishedAt = now()
	}

	// Research.
	log.Infof("researching %q", topic)
	researchOut := c.Invoker.Invoke(ctx, stage.Request{
		Stage:       c.Research,
		Input:       topic,
		Timeout:     c.Config.Timeouts.Research,
		MaxAttempts: c.Config.MaxAttempts,
	})
	if !researchOut.OK() {
		rec.Stages[models.StageResearch] = models.StatusFailed
		rec.FailureReason = fmt.Sprintf("research failed (%s): %s", researchOut.Kind, researchOut.Detail)
		finish()
		return rec, fmt.Errorf("pipeline: research: %s", researchOut.Detail)
	}
	research, err := agents.DecodeResearch(researchOut.Payload)
	if err != nil {
		rec.Stages[models.StageResearch] = models.StatusFailed
		rec.FailureReason = fmt.Sprintf("research output unusable: %v", err)
		finish()
		return rec, fmt.Errorf("pipeline: research: %w", err)
	}
	rec.Stages[models.StageResearch] = models.StatusSucceeded
	log.Successf("research done: %d facts, %d sources", len(research.FactsAndStats), len(research.Sources))

	// Draft loop.
	loop := &DraftLoop{
		Invoker:   c.Invoker,
		Write:     c.Write,
		Evaluate:  c.Evaluate,
		MaxRounds: c.Config.MaxRounds,
		Threshold: c.Config.ApprovalThreshold,
		WriteRequest: stage.Request{
			Timeout:     c.Config.Timeouts.Write,
			MaxAttempts: c.Config.MaxAttempts,
		},
		EvaluateRequest: stage.Request{
			Timeout:     c.Config.Timeouts.Evaluate,
			MaxAttempts: c.Config.MaxAttempts,
		},
		Log: log,
	}
	best := loop.Run(ctx, research)
	if best == nil {
		rec.Stages[models.StageWrite] = models.StatusFailed
		rec.Stages[models.StageEvaluate] = models.StatusFailed
		rec.FailureReason = "no draft survived evaluation"
		finish()
		return rec, ErrNoDraft
	}
	rec.Stages[models.StageWrite] = models.StatusSucceeded
	rec.Stages[models.StageEvaluate] = models.StatusSucceeded
	rec.BestDraft = best.Draft
	rec.Evaluation = best.Evaluation
	log.Infof("best draft from round %d, score %.1f/10", best.Round, best.Score())

	// Social repurposing. Failure skips everything downstream.
	socialOut := c.Invoker.Invoke(ctx, stage.Request{
		Stage:       c.Social,
		Input:       agents.BuildSocialPrompt(best.Draft, topic),
		Timeout:     c.Config.Timeouts.Social,
		MaxAttempts: c.Config.MaxAttempts,
	})
	social, socialErr := decodeSocialOutcome(socialOut)
	if socialErr != nil {
		log.Errorf("social repurposing failed: %v", socialErr)
		rec.Stages[models.StageSocial] = models.StatusFailed
		rec.Stages[models.StageStorage] = models.StatusSkipped
		rec.Stages[models.StageSchedule] = models.StatusSkipped
		finish()
		return rec, nil
	}
	rec.Stages[models.StageSocial] = models.StatusSucceeded
	rec.Social = social
	log.Successf("social content generated for TikTok, LinkedIn and Instagram")

	// Storage. Failure does not block scheduling.
	if out, err := c.runStorage(ctx, topic, best.Draft, social); err != nil {
		log.Errorf("storage failed: %v", err)
		rec.Stages[models.StageStorage] = models.StatusFailed
	} else {
		rec.Stages[models.StageStorage] = models.StatusSucceeded
		rec.Storage = out
		log.Successf("content saved: %s", out.MasterContentLink)
	}

	// Scheduling.
	if out, err := c.runSchedule(ctx, topic, social); err != nil {
		log.Errorf("scheduling failed: %v", err)
		rec.Stages[models.StageSchedule] = models.StatusFailed
	} else {
		rec.Stages[models.StageSchedule] = models.StatusSucceeded
		rec.Schedule = out
		log.Successf("%d posts scheduled", len(out.ScheduledPosts))
	}

	finish()
	return rec, nil
}

func (c *Coordinator) runStorage(ctx context.Context, topic, master string, social *models.SocialContent) (*models.StorageResult, error) {
	input, err := json.Marshal(models.StorageRequest{
		Topic:         topic,
		MasterContent: master,
		Social:        social,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding storage request: %w", err)
	}
	out := c.Invoker.Invoke(ctx, stage.Request{
		Stage:       c.Storage,
		Input:       string(input),
		Timeout:     c.Config.Timeouts.Storage,
		MaxAttempts: c.Config.MaxAttempts,
	})
	if !out.OK() {
		return nil, fmt.Errorf("%s after %d attempts: %s", out.Kind, out.Attempts, out.Detail)
	}
	var result models.StorageResult
	if err := json.Unmarshal([]byte(out.Payload), &result); err != nil {
		return nil, fmt.Errorf("decoding storage result: %w", err)
	}
	return &result, nil
}

func (c *Coordinator) runSchedule(ctx context.Context, topic string, social *models.SocialContent) (*models.ScheduleResult, error) {
	input, err := json.Marshal(models.ScheduleRequest{Topic: topic, Social: social})
	if err != nil {
		return nil, fmt.Errorf("encoding schedule request: %w", err)
	}
	out := c.Invoker.Invoke(ctx, stage.Request{
		Stage:       c.Schedule,
		Input:       string(input),
		Timeout:     c.Config.Timeouts.Schedule,
		MaxAttempts: c.Config.MaxAttempts,
	})
	if !out.OK() {
		return nil, fmt.Errorf("%s after %d attempts: %s", out.Kind, out.Attempts, out.Detail)
	}
	var result models.ScheduleResult
	if err := json.Unmarshal([]byte(out.Payload), &result); err != nil {
		return nil, fmt.Errorf("decoding schedule result: %w", err)
	}
	return &result, nil
}

func decodeSocialOutcome(out stage.Outcome) (*models.SocialContent, error) {
	if !out.OK() {
		return nil, fmt.Errorf("%s after %d attempts: %s", out.Kind, out.Attempts, out.Detail)
	}
	return agents.DecodeSocial(out.Payload)
}
