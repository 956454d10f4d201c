package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all runtime settings. Every field is sourced from environment
// variables (a .env file is honored when present) with defaults matching the
// reference deployment.
type Config struct {
	APIHost string
	APIPort int

	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIMaxTokens   int
	OpenAITemperature float32

	GitHubToken    string
	GitHubUsername string

	FetchTimeout time.Duration

	DefaultIssueLimit int
	MaxIssueLimit     int

	AutoFixMaxConcurrent int
	AutoFixTaskRetention int

	SlackWebhookURL string

	DemoOwner string
	DemoRepo  string
	DemoIssue int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8000)
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_MAX_TOKENS", 2000)
	v.SetDefault("OPENAI_TEMPERATURE", 0.2)
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("DEFAULT_ISSUE_LIMIT", 20)
	v.SetDefault("MAX_ISSUE_LIMIT", 100)
	v.SetDefault("AUTOFIX_MAX_CONCURRENT", 4)
	v.SetDefault("AUTOFIX_TASK_RETENTION", 256)
	v.SetDefault("DEMO_OWNER", "octocat")
	v.SetDefault("DEMO_REPO", "Hello-World")
	v.SetDefault("DEMO_ISSUE", 1)

	cfg := &Config{
		APIHost:              v.GetString("API_HOST"),
		APIPort:              v.GetInt("API_PORT"),
		OpenAIAPIKey:         v.GetString("OPENAI_API_KEY"),
		OpenAIModel:          v.GetString("OPENAI_MODEL"),
		OpenAIMaxTokens:      v.GetInt("OPENAI_MAX_TOKENS"),
		OpenAITemperature:    float32(v.GetFloat64("OPENAI_TEMPERATURE")),
		GitHubToken:          v.GetString("GITHUB_TOKEN"),
		GitHubUsername:       v.GetString("GITHUB_USERNAME"),
		FetchTimeout:         v.GetDuration("FETCH_TIMEOUT"),
		DefaultIssueLimit:    v.GetInt("DEFAULT_ISSUE_LIMIT"),
		MaxIssueLimit:        v.GetInt("MAX_ISSUE_LIMIT"),
		AutoFixMaxConcurrent: v.GetInt("AUTOFIX_MAX_CONCURRENT"),
		AutoFixTaskRetention: v.GetInt("AUTOFIX_TASK_RETENTION"),
		SlackWebhookURL:      v.GetString("SLACK_WEBHOOK_URL"),
		DemoOwner:            v.GetString("DEMO_OWNER"),
		DemoRepo:             v.GetString("DEMO_REPO"),
		DemoIssue:            v.GetInt("DEMO_ISSUE"),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	return cfg, nil
}

// WarnMissing logs degraded-mode warnings for absent credentials. Startup
// proceeds regardless; the service runs against fixture data instead.
func (c *Config) WarnMissing(logger *zap.Logger) {
	if c.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, text generation runs in degraded mode")
	}
	if c.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN not set, using fixture data for GitHub reads")
	}
	if c.GitHubUsername == "" {
		logger.Warn("GITHUB_USERNAME not set, fork and pull request flows may not work as expected")
	}
}
