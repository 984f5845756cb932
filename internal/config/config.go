// Package config loads run settings from the environment, with an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingRecipients = errors.New("SERVER_CHAN_KEYS is required")
	ErrMissingModelKey   = errors.New("model API key is required")
	ErrUnknownProvider   = errors.New("unknown MODEL_PROVIDER")
)

// Model providers.
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

type Config struct {
	// Push settings
	ServerChanKeys  []string
	ServerChanURL   string
	TelegramToken   string
	TelegramChatIDs []string
	SMTPServer      string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	EmailFrom       string
	EmailTo         []string
	PushTimeout     time.Duration

	// Model settings
	ModelProvider string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string

	// Sources and extraction
	FeedsConfigPath      string
	PerSourceLimit       int
	ExcerptMaxChars      int
	FeedTimeout          time.Duration
	ArticleTimeout       time.Duration
	RetryAttempts        int
	RetryDelay           time.Duration
	AggregateConcurrency int

	// Output
	ScriptLayoutPath string
	Timezone         string
	DryRun           bool

	// App settings
	Debug                bool
	EnableHTTPMonitoring bool
	MonitoringPort       string
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	// A missing .env is fine; variables already set are never overridden.
	_ = godotenv.Load()

	cfg := &Config{
		ServerChanKeys:       splitList(os.Getenv("SERVER_CHAN_KEYS")),
		ServerChanURL:        getEnvOrDefault("SERVER_CHAN_URL", "https://sctapi.ftqq.com/%s.send"),
		TelegramToken:        os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatIDs:      splitList(os.Getenv("TELEGRAM_CHAT_IDS")),
		SMTPServer:           os.Getenv("SMTP_SERVER"),
		SMTPPort:             getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser:             os.Getenv("SMTP_USER"),
		SMTPPass:             os.Getenv("SMTP_PASS"),
		EmailFrom:            os.Getenv("EMAIL_FROM"),
		EmailTo:              splitList(os.Getenv("EMAIL_TO")),
		PushTimeout:          getEnvDurationOrDefault("PUSH_TIMEOUT", 10*time.Second),
		ModelProvider:        strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", ProviderDeepSeek)),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:        getEnvOrDefault("OPENAI_BASE_URL", "https://api.deepseek.com/v1"),
		OpenAIModel:          getEnvOrDefault("OPENAI_MODEL", "deepseek-chat"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		FeedsConfigPath:      getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		PerSourceLimit:       getEnvIntOrDefault("PER_SOURCE_LIMIT", 5),
		ExcerptMaxChars:      getEnvIntOrDefault("EXCERPT_MAX_CHARS", 800),
		FeedTimeout:          getEnvDurationOrDefault("FEED_TIMEOUT", 30*time.Second),
		ArticleTimeout:       getEnvDurationOrDefault("ARTICLE_TIMEOUT", 15*time.Second),
		RetryAttempts:        getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:           getEnvDurationOrDefault("RETRY_DELAY", 5*time.Second),
		AggregateConcurrency: getEnvIntOrDefault("AGGREGATE_CONCURRENCY", 1),
		ScriptLayoutPath:     os.Getenv("SCRIPT_LAYOUT_PATH"),
		Timezone:             getEnvOrDefault("TIMEZONE", "Asia/Shanghai"),
		DryRun:               os.Getenv("DRY_RUN") == "true",
		Debug:                os.Getenv("DEBUG") == "true",
		EnableHTTPMonitoring: os.Getenv("ENABLE_HTTP_MONITORING") == "true",
		MonitoringPort:       getEnvOrDefault("MONITORING_PORT", "8080"),
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault ignores values that are not positive integers.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("5s") or bare seconds ("5").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if len(c.ServerChanKeys) == 0 {
		return ErrMissingRecipients
	}
	switch c.ModelProvider {
	case ProviderDeepSeek, ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY for provider %q", ErrMissingModelKey, c.ModelProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY for provider %q", ErrMissingModelKey, c.ModelProvider)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.ModelProvider)
	}
	if !strings.Contains(c.ServerChanURL, "%s") {
		return fmt.Errorf("SERVER_CHAN_URL must contain %%s for the SendKey")
	}
	return nil
}

// TelegramEnabled reports whether the optional Telegram channel is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && len(c.TelegramChatIDs) > 0
}

// EmailEnabled reports whether the optional email channel is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPServer != "" && len(c.EmailTo) > 0
}
