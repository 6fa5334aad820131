// Package pipeline coordinates the content stages: research, the
// draft-evaluate loop, social repurposing, storage and scheduling.
package pipeline

import (
	"context"

	"github.com/amara/inkflow/internal/agents"
	"github.com/amara/inkflow/internal/models"
	"github.com/amara/inkflow/internal/stage"
)

// Logger is the logging surface the pipeline uses. *logger.ConsoleLogger
// satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any)   {}
func (noopLogger) Infof(string, ...any)    {}
func (noopLogger) Successf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)    {}
func (noopLogger) Errorf(string, ...any)   {}

// DraftLoop runs write-evaluate rounds until a draft clears the approval
// threshold or the round budget runs out, tracking the best-scoring draft
// seen along the way.
type DraftLoop struct {
	Invoker  *stage.Invoker
	Write    stage.Stage
	Evaluate stage.Stage

	MaxRounds int
	Threshold float64

	WriteRequest    stage.Request
	EvaluateRequest stage.Request

	Log Logger
}

// Run executes up to MaxRounds rounds and returns the best evaluated
// attempt, or nil when no round produced an evaluated draft scoring above
// zero. Rounds whose
// write or evaluate call fails are abandoned and do not consume the
// feedback thread.
func (l *DraftLoop) Run(ctx context.Context, research *models.ResearchData) *models.DraftAttempt {
	log := l.Log
	if log == nil {
		log = noopLogger{}
	}

	basePrompt := agents.BuildWriterPrompt(research)
	var best *models.DraftAttempt
	feedback := ""

	for round := 1; round <= l.MaxRounds; round++ {
		log.Infof("draft round %d/%d", round, l.MaxRounds)

		prompt := basePrompt
		if feedback != "" {
			prompt = agents.AppendRewriteFeedback(basePrompt, feedback)
		}

		writeReq := l.WriteRequest
		writeReq.Stage = l.Write
		writeReq.Input = prompt
		writeOut := l.Invoker.Invoke(ctx, writeReq)
		if !writeOut.OK() {
			log.Warnf("round %d draft failed after %d attempts: %s", round, writeOut.Attempts, writeOut.Detail)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		draft := writeOut.Payload

		evalReq := l.EvaluateRequest
		evalReq.Stage = l.Evaluate
		evalReq.Input = agents.BuildEvaluationPrompt(draft, research, best.Score())
		evalOut := l.Invoker.Invoke(ctx, evalReq)
		if !evalOut.OK() {
			log.Warnf("round %d evaluation failed after %d attempts: %s", round, evalOut.Attempts, evalOut.Detail)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		eval, err := agents.DecodeEvaluation(evalOut.Payload)
		if err != nil {
			log.Warnf("round %d evaluation unparseable: %v", round, err)
			continue
		}
		if !eval.Consistent() {
			log.Warnf("round %d overall score %.2f disagrees with weighted dimensions %.2f",
				round, eval.OverallScore, eval.WeightedScore())
		}

		// The initial best score is 0, so a round must beat zero to be
		// retained at all; an all-zero run yields no best attempt.
		attempt := &models.DraftAttempt{Round: round, Draft: draft, Evaluation: eval}
		if attempt.Score() > best.Score() {
			best = attempt
		}

		if eval.Approved || eval.OverallScore >= l.Threshold {
			log.Successf("round %d approved with score %.1f/10", round, eval.OverallScore)
			return best
		}
		log.Infof("round %d scored %.1f/10, below %.1f", round, eval.OverallScore, l.Threshold)
		feedback = eval.SpecificFeedback
	}

	return best
}
