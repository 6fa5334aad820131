// Package agents defines the external LLM agents the pipeline delegates to:
// their definitions, the runtime that executes them, prompt builders and
// structured-output decoding.
package agents

import "context"

// JSONSystemPrompt is appended to structured agents' instructions to enforce
// JSON-only output. This prevents agents from wrapping responses in prose,
// markdown or code fences that break decoding.
const JSONSystemPrompt = "Your ONLY output must be valid JSON matching the requested structure. No markdown, no code fences, no prose, no explanations. Output raw JSON only."

// AgentDef describes one agent: its identity, its standing instructions and
// the model that runs it.
type AgentDef struct {
	// Name identifies the agent in logs and errors.
	Name string

	// Instructions is the agent's system prompt.
	Instructions string

	// Model is the model identifier handed to the runtime.
	Model string

	// JSONOutput appends JSONSystemPrompt to the instructions so the
	// response can be decoded into a typed structure.
	JSONOutput bool
}

// SystemPrompt returns the full system prompt for the agent.
func (a AgentDef) SystemPrompt() string {
	if a.JSONOutput {
		return a.Instructions + "\n\n" + JSONSystemPrompt
	}
	return a.Instructions
}

// Runtime executes an agent against an input and returns its raw output.
// A returned error or an exceeded deadline is the only failure signal the
// orchestrator understands; output content is opaque here.
type Runtime interface {
	Run(ctx context.Context, agent AgentDef, input string) (string, error)
}
