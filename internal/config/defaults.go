package config

// DefaultConfig returns a Config populated with sensible defaults.
// Values from the YAML file and environment overlay on top of these.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://platform.example.io",
		},
		Cache: CacheConfig{
			Dir:                ".pconsole/cache",
			DictionaryTTLHours: 72,
			UnionTTLHours:      72,
		},
		Dictionary: DictionaryConfig{
			BatchSize:  20,
			PageSize:   100,
			MaxSchemas: 1000,
			MaxDepth:   5,
		},
		LLM: LLMConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}
