package infra

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"campaigngen/internal/domain"
	"campaigngen/internal/providers/genai"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	PromptProvider       string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIBaseURL        string
	ProbeTimeout         time.Duration
	GenerationTimeout    time.Duration
	VariationConcurrency int
	MaxVariations        int
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults. A missing provider key is not an error here: the generator starts
// degraded and reports it through its status.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               normalize(getEnv("APP_ENV", "development")),
		Port:                 getEnv("PORT", "8000"),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CORSAllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		PromptProvider:       normalize(getEnv("PROMPT_PROVIDER", "gemini")),
		GeminiAPIKey:         firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:        os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		ProbeTimeout:         time.Second * time.Duration(getEnvInt("PROBE_TIMEOUT_SECONDS", 15)),
		GenerationTimeout:    time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 60)),
		VariationConcurrency: getEnvInt("VARIATION_CONCURRENCY", 1),
		MaxVariations:        getEnvInt("MAX_VARIATIONS", domain.MaxVariationCount),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.VariationConcurrency < 1 {
		cfg.VariationConcurrency = 1
	}
	if cfg.MaxVariations < 1 {
		cfg.MaxVariations = domain.MaxVariationCount
	}

	return cfg, nil
}

// ProviderAPIKey returns the key for the configured prompt provider.
func (c *Config) ProviderAPIKey() string {
	if c.PromptProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// ProviderModel returns the model for the configured prompt provider.
func (c *Config) ProviderModel() string {
	if c.PromptProvider == "openai" {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

// ProviderBaseURL returns the base URL override for the configured provider.
func (c *Config) ProviderBaseURL() string {
	if c.PromptProvider == "openai" {
		return c.OpenAIBaseURL
	}
	return c.GeminiBaseURL
}

// BackendOptions maps the provider settings onto genai.Options.
func (c *Config) BackendOptions(logger *zerolog.Logger) genai.Options {
	return genai.Options{
		Provider:     c.PromptProvider,
		APIKey:       c.ProviderAPIKey(),
		Model:        c.ProviderModel(),
		BaseURL:      c.ProviderBaseURL(),
		ProbeTimeout: c.ProbeTimeout,
		Logger:       logger,
	}
}

var lower = cases.Lower(language.Und)

func normalize(v string) string {
	return lower.String(strings.TrimSpace(v))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
