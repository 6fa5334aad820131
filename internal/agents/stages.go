package agents

import (
	"context"
	"fmt"
	"os"

	"github.com/amara/inkflow/internal/models"
)

// LoadWritingSamples reads the creator's writing samples used for voice
// matching. A missing file returns empty samples and ok=false rather than an
// error; the pipeline warns and continues with less accurate voice matching.
func LoadWritingSamples(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// AgentStage binds an AgentDef to a Runtime as a pipeline stage.
type AgentStage struct {
	name    models.StageName
	agent   AgentDef
	runtime Runtime
}

// Name implements stage.Stage.
func (s *AgentStage) Name() models.StageName { return s.name }

// Execute runs the agent against the input.
func (s *AgentStage) Execute(ctx context.Context, input string) (string, error) {
	out, err := s.runtime.Run(ctx, s.agent, input)
	if err != nil {
		return "", fmt.Errorf("%s agent failed: %w", s.agent.Name, err)
	}
	return out, nil
}

// NewWriteStage creates the master-content write stage.
func NewWriteStage(runtime Runtime, model, samples string) *AgentStage {
	return &AgentStage{name: models.StageWrite, agent: NewWriterAgent(model, samples), runtime: runtime}
}

// NewEvaluateStage creates the draft evaluation stage.
func NewEvaluateStage(runtime Runtime, model, samples string) *AgentStage {
	return &AgentStage{name: models.StageEvaluate, agent: NewEvaluatorAgent(model, samples), runtime: runtime}
}

// NewSocialStage creates the social repurposing stage.
func NewSocialStage(runtime Runtime, model, samples string) *AgentStage {
	return &AgentStage{name: models.StageSocial, agent: NewSocialAgent(model, samples), runtime: runtime}
}
