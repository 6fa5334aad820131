// Package stage provides the stage abstraction and the retrying, timeout-aware
// invoker every pipeline stage runs through.
package stage

import (
	"context"
	"time"

	"github.com/amara/inkflow/internal/models"
)

// Stage is one opaque unit of pipeline work delegated to an external agent
// or service. Execute must honor ctx cancellation.
type Stage interface {
	Name() models.StageName
	Execute(ctx context.Context, input string) (string, error)
}

// StageFunc adapts an ordinary function to the Stage interface.
type StageFunc struct {
	StageName models.StageName
	Fn        func(ctx context.Context, input string) (string, error)
}

// Name returns the stage's name.
func (s StageFunc) Name() models.StageName { return s.StageName }

// Execute calls the wrapped function.
func (s StageFunc) Execute(ctx context.Context, input string) (string, error) {
	return s.Fn(ctx, input)
}

// Request holds per-invocation configuration for one stage call.
// Create a new Request for each invocation.
type Request struct {
	// Stage is the unit of work to run (required).
	Stage Stage

	// Input is the payload handed to the stage; opaque to the invoker.
	Input string

	// Timeout bounds each individual attempt, not the whole invocation.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxAttempts is the attempt budget. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// Outcome is the tagged result of an invocation: a payload on success, or a
// failure kind plus detail after the attempt budget is exhausted.
type Outcome struct {
	Payload  string
	Kind     models.FailureKind
	Detail   string
	Attempts int
}

// OK reports whether the invocation succeeded.
func (o Outcome) OK() bool { return o.Kind == "" }

// Success creates a successful outcome.
func Success(payload string, attempts int) Outcome {
	return Outcome{Payload: payload, Attempts: attempts}
}

// Failure creates a failed outcome with the given kind and detail.
func Failure(kind models.FailureKind, detail string, attempts int) Outcome {
	return Outcome{Kind: kind, Detail: detail, Attempts: attempts}
}
