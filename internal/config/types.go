package config

// ProviderType identifies an LLM provider for the dashboard assistant.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
)

// Config is the top-level pconsole configuration, corresponding to .pconsole.yml.
type Config struct {
	API        APIConfig        `yaml:"api" koanf:"api"`
	Auth       AuthConfig       `yaml:"auth" koanf:"auth"`
	Cache      CacheConfig      `yaml:"cache" koanf:"cache"`
	Dictionary DictionaryConfig `yaml:"dictionary" koanf:"dictionary"`
	LLM        LLMConfig        `yaml:"llm" koanf:"llm"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
}

// APIConfig points at the remote platform API.
type APIConfig struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	OrgID   string `yaml:"org_id" koanf:"org_id"`
	Sandbox string `yaml:"sandbox" koanf:"sandbox"`
}

// AuthConfig holds the OAuth2 client-credentials settings for the platform.
type AuthConfig struct {
	TokenURL     string   `yaml:"token_url" koanf:"token_url"`
	ClientID     string   `yaml:"client_id" koanf:"client_id"`
	ClientSecret string   `yaml:"client_secret" koanf:"client_secret"`
	Scopes       []string `yaml:"scopes" koanf:"scopes"`
}

// CacheConfig controls the on-disk artifact caches.
type CacheConfig struct {
	Dir                string `yaml:"dir" koanf:"dir"`
	DictionaryTTLHours int    `yaml:"dictionary_ttl_hours" koanf:"dictionary_ttl_hours"`
	UnionTTLHours      int    `yaml:"union_ttl_hours" koanf:"union_ttl_hours"`
}

// DictionaryConfig tunes the schema registry crawl.
type DictionaryConfig struct {
	BatchSize  int      `yaml:"batch_size" koanf:"batch_size"`
	PageSize   int      `yaml:"page_size" koanf:"page_size"`
	MaxSchemas int      `yaml:"max_schemas" koanf:"max_schemas"`
	MaxDepth   int      `yaml:"max_depth" koanf:"max_depth"`
	Include    []string `yaml:"include" koanf:"include"`
	Exclude    []string `yaml:"exclude" koanf:"exclude"`
}

// LLMConfig configures the assistant's model provider.
type LLMConfig struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	EmbeddingModel string       `yaml:"embedding_model" koanf:"embedding_model"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
