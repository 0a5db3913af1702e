package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port        string
	DatabaseURL string

	LLMProvider    string
	LLMModel       string
	LLMTemperature float64
	MaxRetries     int
	RetryBaseDelay time.Duration

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	PineconeAPIKey    string
	PineconeIndexName string

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_URL", "")
	v.SetDefault("LLM_PROVIDER", ProviderGemini)
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("LLM_MAX_RETRIES", 3)
	v.SetDefault("LLM_RETRY_BASE_DELAY", "1s")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("PINECONE_API_KEY", "")
	v.SetDefault("PINECONE_INDEX_NAME", "aimentor-summaries-index")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	cfg := &Config{
		Port:              v.GetString("PORT"),
		DatabaseURL:       v.GetString("DB_URL"),
		LLMProvider:       strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		LLMModel:          v.GetString("LLM_MODEL"),
		LLMTemperature:    v.GetFloat64("LLM_TEMPERATURE"),
		MaxRetries:        v.GetInt("LLM_MAX_RETRIES"),
		RetryBaseDelay:    v.GetDuration("LLM_RETRY_BASE_DELAY"),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		AnthropicAPIKey:   v.GetString("ANTHROPIC_API_KEY"),
		PineconeAPIKey:    v.GetString("PINECONE_API_KEY"),
		PineconeIndexName: v.GetString("PINECONE_INDEX_NAME"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
	}

	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderGemini
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}

	return cfg
}

// APIKeyFor returns the credential configured for the given LLM provider.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// SearchEnabled reports whether the summary index has the credentials it needs.
func (c *Config) SearchEnabled() bool {
	return c.PineconeAPIKey != "" && c.OpenAIAPIKey != ""
}
