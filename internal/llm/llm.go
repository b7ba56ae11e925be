// Package llm abstracts the chat model behind the assistant.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/dviselman/pconsole/internal/config"
)

// Conversation roles as the chat APIs spell them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// Request is a chat completion request. Model overrides the provider's
// configured default when set.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Usage reports token consumption for a completion.
type Usage struct {
	Prompt     int
	Completion int
}

// Response is the model's answer to a Request.
type Response struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

// Provider executes chat completions against one backend.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// NewProvider builds a provider from config. API keys come from the
// environment, never from the config file.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	envVar := config.APIKeyEnvVar(cfg.Provider)
	if envVar == "" {
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
	key := os.Getenv(envVar)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", envVar)
	}

	if cfg.Provider == config.ProviderOpenRouter {
		return NewOpenRouterProvider(key, cfg.Model), nil
	}
	return NewOpenAIProvider(key, cfg.Model), nil
}
