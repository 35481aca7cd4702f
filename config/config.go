package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Log       LogConfig       `mapstructure:"log"`
	Quote     QuoteConfig     `mapstructure:"quote"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataConfig points at the catalog documents
type DataConfig struct {
	ProductsPath string `mapstructure:"products_path"`
	PricesPath   string `mapstructure:"prices_path"`
	ChunksPath   string `mapstructure:"chunks_path"` // optional prebuilt retrieval chunks
}

// MatchingConfig holds fuzzy matching thresholds and trigger phrases
type MatchingConfig struct {
	NameThreshold             float64           `mapstructure:"name_threshold"`
	CodeThreshold             float64           `mapstructure:"code_threshold"`
	SizeThreshold             float64           `mapstructure:"size_threshold"`
	SuggestionFloor           float64           `mapstructure:"suggestion_floor"`
	SuggestionLimit           int               `mapstructure:"suggestion_limit"`
	AutoSubstituteClosestSize bool              `mapstructure:"auto_substitute_closest_size"`
	SizeAliases               map[string]string `mapstructure:"size_aliases"`
	AboutTriggers             []string          `mapstructure:"about_triggers"`
	PriceTriggers             []string          `mapstructure:"price_triggers"`
}

// RetrievalConfig holds chunk ranking configuration
type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LLMConfig holds the answer generator endpoint configuration
type LLMConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RatePerSec float64       `mapstructure:"rate_per_sec"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// QuoteConfig holds quotation configuration
type QuoteConfig struct {
	VATRate float64 `mapstructure:"vat_rate"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/paintassist/")

	// PAINTASSIST_MATCHING_NAME_THRESHOLD -> matching.name_threshold
	v.SetEnvPrefix("PAINTASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Data defaults
	v.SetDefault("data.products_path", "data/products.json")
	v.SetDefault("data.prices_path", "data/prices.json")
	v.SetDefault("data.chunks_path", "")

	// Matching defaults
	v.SetDefault("matching.name_threshold", 75)
	v.SetDefault("matching.code_threshold", 80)
	v.SetDefault("matching.size_threshold", 70)
	v.SetDefault("matching.suggestion_floor", 60)
	v.SetDefault("matching.suggestion_limit", 3)
	v.SetDefault("matching.auto_substitute_closest_size", false)
	v.SetDefault("matching.size_aliases", map[string]string{})
	v.SetDefault("matching.about_triggers", []string{})
	v.SetDefault("matching.price_triggers", []string{})

	v.SetDefault("retrieval.top_k", 18)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.rate_per_sec", 1)
	v.SetDefault("llm.max_retries", 3)

	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")

	v.SetDefault("quote.vat_rate", 0.05)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Data.ProductsPath == "" || config.Data.PricesPath == "" {
		return fmt.Errorf("data.products_path and data.prices_path are required")
	}

	m := config.Matching
	for name, value := range map[string]float64{
		"name_threshold":   m.NameThreshold,
		"code_threshold":   m.CodeThreshold,
		"size_threshold":   m.SizeThreshold,
		"suggestion_floor": m.SuggestionFloor,
	} {
		if value <= 0 || value > 100 {
			return fmt.Errorf("matching.%s must be above 0 and at most 100, got: %v", name, value)
		}
	}

	if m.SuggestionLimit < 1 {
		return fmt.Errorf("matching.suggestion_limit must be at least 1, got: %d", m.SuggestionLimit)
	}

	if config.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be at least 1, got: %d", config.Retrieval.TopK)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.Quote.VATRate < 0 || config.Quote.VATRate >= 1 {
		return fmt.Errorf("quote.vat_rate must be a fraction in [0, 1), got: %v", config.Quote.VATRate)
	}

	switch strings.ToLower(config.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
