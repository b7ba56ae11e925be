package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

const defaultMaxTokens = 4096

// chatProvider serves every OpenAI-compatible backend; only the client
// configuration and the name differ between them.
type chatProvider struct {
	name   string
	client *openai.Client
	model  string
}

// NewOpenAIProvider talks to the OpenAI Chat Completions API.
func NewOpenAIProvider(apiKey, model string) Provider {
	return &chatProvider{
		name:   "openai",
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenRouterProvider talks to OpenRouter's OpenAI-compatible API.
func NewOpenRouterProvider(apiKey, model string) Provider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	return &chatProvider{
		name:   "openrouter",
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *chatProvider) Name() string { return p.name }

func (p *chatProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s completion: no choices returned", p.name)
	}

	choice := resp.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
		},
	}, nil
}
