package stage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amara/inkflow/internal/models"
)

// recordingSleeper captures backoff waits instead of sleeping.
type recordingSleeper struct {
	slept []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) { r.slept = append(r.slept, d) }

func (r *recordingSleeper) total() time.Duration {
	var sum time.Duration
	for _, d := range r.slept {
		sum += d
	}
	return sum
}

// scriptedStage fails a configured number of times before succeeding.
type scriptedStage struct {
	failures int
	payload  string
	err      error
	calls    int
}

func (s *scriptedStage) Name() models.StageName { return "write" }

func (s *scriptedStage) Execute(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.calls <= s.failures {
		if s.err != nil {
			return "", s.err
		}
		return "", errors.New("simulated failure")
	}
	return s.payload, nil
}

func newTestInvoker() (*Invoker, *recordingSleeper) {
	sleeper := &recordingSleeper{}
	return &Invoker{BaseDelay: time.Second, Sleeper: sleeper}, sleeper
}

func TestInvokeSucceedsAfterFailures(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		wantWait  time.Duration
		wantTries int
	}{
		{name: "first attempt succeeds", failures: 0, wantWait: 0, wantTries: 1},
		{name: "one failure then success", failures: 1, wantWait: 1 * time.Second, wantTries: 2},
		{name: "two failures then success", failures: 2, wantWait: 3 * time.Second, wantTries: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, sleeper := newTestInvoker()
			st := &scriptedStage{failures: tt.failures, payload: "draft text"}

			outcome := inv.Invoke(context.Background(), Request{Stage: st, Input: "topic", MaxAttempts: 3})

			if !outcome.OK() {
				t.Fatalf("Invoke() failed: kind=%s detail=%s", outcome.Kind, outcome.Detail)
			}
			if outcome.Payload != "draft text" {
				t.Errorf("Payload = %q, want %q", outcome.Payload, "draft text")
			}
			if outcome.Attempts != tt.wantTries {
				t.Errorf("Attempts = %d, want %d", outcome.Attempts, tt.wantTries)
			}
			if sleeper.total() != tt.wantWait {
				t.Errorf("total backoff = %v, want %v", sleeper.total(), tt.wantWait)
			}
		})
	}
}

func TestInvokeExhaustsAttemptBudget(t *testing.T) {
	inv, sleeper := newTestInvoker()
	st := &scriptedStage{failures: 10, payload: "never reached"}

	outcome := inv.Invoke(context.Background(), Request{Stage: st, MaxAttempts: 3})

	if outcome.OK() {
		t.Fatal("Invoke() succeeded, want failure")
	}
	if outcome.Kind != models.FailureTransient {
		t.Errorf("Kind = %s, want %s", outcome.Kind, models.FailureTransient)
	}
	if outcome.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", outcome.Attempts)
	}
	// Backoff after attempts 1 and 2 only; never after the final attempt.
	if len(sleeper.slept) != 2 {
		t.Fatalf("slept %d times, want 2", len(sleeper.slept))
	}
	if sleeper.slept[0] != 1*time.Second || sleeper.slept[1] != 2*time.Second {
		t.Errorf("backoff sequence = %v, want [1s 2s]", sleeper.slept)
	}
}

func TestInvokeTimeoutTaggedPerAttempt(t *testing.T) {
	inv, _ := newTestInvoker()
	slow := StageFunc{StageName: "research", Fn: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}

	outcome := inv.Invoke(context.Background(), Request{
		Stage:       slow,
		Timeout:     10 * time.Millisecond,
		MaxAttempts: 2,
	})

	if outcome.OK() {
		t.Fatal("Invoke() succeeded, want timeout failure")
	}
	if outcome.Kind != models.FailureTimeout {
		t.Errorf("Kind = %s, want %s", outcome.Kind, models.FailureTimeout)
	}
	if outcome.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", outcome.Attempts)
	}
}

func TestInvokeEmptyPayloadIsNotSuccess(t *testing.T) {
	inv, _ := newTestInvoker()
	empty := StageFunc{StageName: "write", Fn: func(context.Context, string) (string, error) {
		return "   ", nil
	}}

	outcome := inv.Invoke(context.Background(), Request{Stage: empty, MaxAttempts: 2})

	if outcome.OK() {
		t.Fatal("Invoke() succeeded on empty payload")
	}
	if outcome.Kind != models.FailureTransient {
		t.Errorf("Kind = %s, want %s", outcome.Kind, models.FailureTransient)
	}
}

func TestInvokeCancellationStopsRetrying(t *testing.T) {
	inv, sleeper := newTestInvoker()
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	failing := StageFunc{StageName: "social", Fn: func(context.Context, string) (string, error) {
		calls++
		cancel()
		return "", errors.New("boom")
	}}

	outcome := inv.Invoke(ctx, Request{Stage: failing, MaxAttempts: 3})

	if outcome.OK() {
		t.Fatal("Invoke() succeeded, want cancellation failure")
	}
	if outcome.Kind != models.FailureTimeout {
		t.Errorf("Kind = %s, want %s (cancellation is timeout-class)", outcome.Kind, models.FailureTimeout)
	}
	if calls != 1 {
		t.Errorf("stage called %d times after cancel, want 1", calls)
	}
	if len(sleeper.slept) != 0 {
		t.Errorf("slept %v after cancel, want no backoff", sleeper.slept)
	}
}

// cancellingSleeper cancels the run partway through a backoff wait.
type cancellingSleeper struct {
	cancel context.CancelFunc
	slept  []time.Duration
}

func (c *cancellingSleeper) Sleep(_ context.Context, d time.Duration) {
	c.slept = append(c.slept, d)
	c.cancel()
}

func TestInvokeCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sleeper := &cancellingSleeper{cancel: cancel}
	inv := &Invoker{BaseDelay: time.Second, Sleeper: sleeper}

	calls := 0
	failing := StageFunc{StageName: "write", Fn: func(context.Context, string) (string, error) {
		calls++
		return "", errors.New("boom")
	}}

	outcome := inv.Invoke(ctx, Request{Stage: failing, MaxAttempts: 3})

	if outcome.OK() {
		t.Fatal("Invoke() succeeded, want cancellation failure")
	}
	if outcome.Kind != models.FailureTimeout {
		t.Errorf("Kind = %s, want %s (cancellation is timeout-class)", outcome.Kind, models.FailureTimeout)
	}
	if calls != 1 {
		t.Errorf("stage called %d times, want 1: no attempt may follow a cancelled backoff", calls)
	}
	if len(sleeper.slept) != 1 {
		t.Errorf("slept %v, want a single interrupted wait", sleeper.slept)
	}
}

func TestRealSleeperHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	realSleeper{}.Sleep(ctx, 10*time.Second)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Sleep on cancelled context took %v", elapsed)
	}
}

func TestInvokeFatalErrorStopsRetrying(t *testing.T) {
	inv, sleeper := newTestInvoker()

	calls := 0
	invalid := StageFunc{StageName: "research", Fn: func(context.Context, string) (string, error) {
		calls++
		return "", fmt.Errorf("%w: topic is empty", ErrInvalidInput)
	}}

	outcome := inv.Invoke(context.Background(), Request{Stage: invalid, MaxAttempts: 3})

	if outcome.OK() {
		t.Fatal("Invoke() succeeded, want fatal failure")
	}
	if outcome.Kind != models.FailureFatal {
		t.Errorf("Kind = %s, want %s", outcome.Kind, models.FailureFatal)
	}
	if outcome.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", outcome.Attempts)
	}
	if calls != 1 {
		t.Errorf("stage called %d times, want 1: invalid input is not retried", calls)
	}
	if len(sleeper.slept) != 0 {
		t.Errorf("slept %v, want no backoff before a fatal return", sleeper.slept)
	}
}

func TestInvokeAppliesDefaults(t *testing.T) {
	inv := NewInvoker()
	if inv.BaseDelay != DefaultBaseDelay {
		t.Errorf("BaseDelay = %v, want %v", inv.BaseDelay, DefaultBaseDelay)
	}

	st := &scriptedStage{payload: "ok"}
	outcome := inv.Invoke(context.Background(), Request{Stage: st})
	if !outcome.OK() {
		t.Fatalf("Invoke() failed: %s", outcome.Detail)
	}
	if outcome.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", outcome.Attempts)
	}
}

func TestInvokeSynchronousErrorDetailPreserved(t *testing.T) {
	inv, _ := newTestInvoker()
	cause := fmt.Errorf("provider rejected request: %w", errors.New("401 unauthorized"))
	st := StageFunc{StageName: "storage", Fn: func(context.Context, string) (string, error) {
		return "", cause
	}}

	outcome := inv.Invoke(context.Background(), Request{Stage: st, MaxAttempts: 1})

	if outcome.Detail != cause.Error() {
		t.Errorf("Detail = %q, want underlying cause %q", outcome.Detail, cause.Error())
	}
}
