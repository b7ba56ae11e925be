package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PCONSOLE_*). Double underscores
// separate nesting levels: PCONSOLE_AUTH__CLIENT_SECRET sets
// auth.client_secret.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("PCONSOLE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "PCONSOLE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI:     true,
	ProviderOpenRouter: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.OrgID == "" {
		return fmt.Errorf("api.org_id is required")
	}
	if c.API.Sandbox == "" {
		return fmt.Errorf("api.sandbox is required")
	}

	if c.LLM.Provider != "" && !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of openai, openrouter", c.LLM.Provider)
	}

	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required")
	}
	if c.Cache.DictionaryTTLHours <= 0 {
		return fmt.Errorf("cache.dictionary_ttl_hours must be positive")
	}
	if c.Cache.UnionTTLHours <= 0 {
		return fmt.Errorf("cache.union_ttl_hours must be positive")
	}

	if c.Dictionary.BatchSize <= 0 {
		return fmt.Errorf("dictionary.batch_size must be positive")
	}
	if c.Dictionary.PageSize <= 0 || c.Dictionary.PageSize > 500 {
		return fmt.Errorf("dictionary.page_size must be in 1..500")
	}
	if c.Dictionary.MaxSchemas <= 0 {
		return fmt.Errorf("dictionary.max_schemas must be positive")
	}
	if c.Dictionary.MaxDepth <= 0 {
		return fmt.Errorf("dictionary.max_depth must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given assistant provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
