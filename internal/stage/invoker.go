package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amara/inkflow/internal/models"
)

// Defaults applied when a Request leaves the corresponding field zero.
const (
	DefaultTimeout     = 180 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// ErrInvalidInput marks stage errors no retry can repair, such as rejected
// input. The invoker reports them as fatal without consuming the remaining
// attempt budget.
var ErrInvalidInput = errors.New("invalid input")

// Sleeper abstracts backoff waits so tests can observe them without
// sleeping. Sleep returns early when ctx is cancelled.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Invoker runs stages with bounded retry, exponential backoff and a
// per-attempt timeout. It follows the http.Client pattern: create once, use
// many times. It holds no state across invocations and is safe for
// concurrent use.
type Invoker struct {
	// BaseDelay is the backoff unit: attempt n failing waits
	// BaseDelay * 2^(n-1) before the next attempt. Defaults to one second.
	BaseDelay time.Duration

	// Sleeper performs backoff waits. Defaults to time.Sleep.
	Sleeper Sleeper
}

// NewInvoker creates an Invoker with default settings.
func NewInvoker() *Invoker {
	return &Invoker{BaseDelay: DefaultBaseDelay, Sleeper: realSleeper{}}
}

// Invoke runs the requested stage up to its attempt budget. Each attempt is
// raced against the timeout; a timed-out attempt is abandoned (the buffered
// result channel lets the stage goroutine finish and be collected). A stage
// error and a timeout consume an attempt identically; only the failure kind
// differs. Errors wrapping ErrInvalidInput are fatal and end the invocation
// without further attempts. Success requires a non-empty payload.
// Cancellation of ctx ends the invocation immediately with a timeout-class
// failure, including mid-backoff.
func (inv *Invoker) Invoke(ctx context.Context, req Request) Outcome {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseDelay := inv.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	sleeper := inv.Sleeper
	if sleeper == nil {
		sleeper = realSleeper{}
	}

	var kind models.FailureKind
	var detail string

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		payload, err := inv.attempt(ctx, req.Stage, req.Input, timeout)

		switch {
		case err == nil && strings.TrimSpace(payload) != "":
			return Success(payload, attempt)
		case err == nil:
			kind = models.FailureTransient
			detail = fmt.Sprintf("%s returned an empty payload", req.Stage.Name())
		case errors.Is(err, ErrInvalidInput):
			return Failure(models.FailureFatal, err.Error(), attempt)
		case errors.Is(err, context.DeadlineExceeded):
			kind = models.FailureTimeout
			detail = fmt.Sprintf("%s attempt %d exceeded %s", req.Stage.Name(), attempt, timeout)
		default:
			kind = models.FailureTransient
			detail = err.Error()
		}

		// A cancelled run stops retrying; surfaced as a timeout-class outcome.
		if ctx.Err() != nil {
			return Failure(models.FailureTimeout, fmt.Sprintf("%s cancelled: %v", req.Stage.Name(), ctx.Err()), attempt)
		}

		if attempt < maxAttempts {
			sleeper.Sleep(ctx, baseDelay<<(attempt-1))
			if ctx.Err() != nil {
				return Failure(models.FailureTimeout, fmt.Sprintf("%s cancelled: %v", req.Stage.Name(), ctx.Err()), attempt)
			}
		}
	}

	return Failure(kind, detail, maxAttempts)
}

// attempt races one stage call against the per-attempt deadline.
func (inv *Invoker) attempt(ctx context.Context, s Stage, input string, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		payload string
		err     error
	}
	done := make(chan result, 1)

	go func() {
		payload, err := s.Execute(attemptCtx, input)
		done <- result{payload, err}
	}()

	select {
	case <-attemptCtx.Done():
		return "", attemptCtx.Err()
	case r := <-done:
		return r.payload, r.err
	}
}
