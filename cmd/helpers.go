package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dviselman/pconsole/internal/auth"
	"github.com/dviselman/pconsole/internal/config"
	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/embeddings"
	"github.com/dviselman/pconsole/internal/llm"
	"github.com/dviselman/pconsole/internal/platform"
)

// loadConfig loads and validates the config, providing a friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\nRun `pconsole init` to create a config file", err)
	}
	return cfg, nil
}

// buildPlatformClient creates an authenticated platform API client.
// PCONSOLE_ACCESS_TOKEN bypasses the OAuth client-credentials flow.
func buildPlatformClient(cfg *config.Config) (*platform.Client, error) {
	var tokens auth.TokenSource
	if token := os.Getenv("PCONSOLE_ACCESS_TOKEN"); token != "" {
		tokens = auth.StaticTokenSource{AccessToken: token}
	} else {
		source, err := auth.NewClientCredentialsSource(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("configuring auth: %w", err)
		}
		tokens = source
	}
	return platform.New(cfg.API, cfg.Auth.ClientID, tokens), nil
}

// buildDictionaryService wires the dictionary service from config. history
// may be nil when no database is open (one-shot CLI builds).
func buildDictionaryService(cfg *config.Config, client *platform.Client, history dictionary.RunRecorder, onProgress func(done, total int)) *dictionary.Service {
	return dictionary.NewService(client, dictionary.Config{
		BatchSize:     cfg.Dictionary.BatchSize,
		PageSize:      cfg.Dictionary.PageSize,
		MaxSchemas:    cfg.Dictionary.MaxSchemas,
		MaxDepth:      cfg.Dictionary.MaxDepth,
		Include:       cfg.Dictionary.Include,
		Exclude:       cfg.Dictionary.Exclude,
		DictionaryTTL: time.Duration(cfg.Cache.DictionaryTTLHours) * time.Hour,
		UnionTTL:      time.Duration(cfg.Cache.UnionTTLHours) * time.Hour,
		Files:         dictionary.DirStore{Dir: cfg.Cache.Dir},
		History:       history,
		OnProgress:    onProgress,
	})
}

// createEmbedder creates the embedder backing semantic field search, or
// nil when no OpenAI key is available.
func createEmbedder(cfg *config.Config) embeddings.Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil
	}
	return embeddings.NewOpenAIEmbedder(apiKey, cfg.LLM.EmbeddingModel)
}

// createLLMProvider creates the assistant's model provider, or nil when
// none is configured.
func createLLMProvider(cfg *config.Config) (llm.Provider, error) {
	if cfg.LLM.Provider == "" {
		return nil, nil
	}
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(provider, 60), nil
}
