package agents

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIRuntime implements Runtime using the official openai-go SDK
// (chat completions).
type OpenAIRuntime struct {
	opts []option.RequestOption
}

// NewOpenAIRuntime creates a runtime from an API key and optional base URL
// override.
func NewOpenAIRuntime(apiKey, baseURL string) (*OpenAIRuntime, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; provide credentials.openai_api_key or OPENAI_API_KEY")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIRuntime{opts: opts}, nil
}

// Run sends the agent's system prompt and the input as a single-turn chat
// completion and returns the model's text.
func (r *OpenAIRuntime) Run(ctx context.Context, agent AgentDef, input string) (string, error) {
	if agent.Model == "" {
		return "", errors.New("agent model is required")
	}

	client := openai.NewClient(r.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(agent.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(agent.SystemPrompt()),
			openai.UserMessage(input),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
