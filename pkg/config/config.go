package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the SprintLaunchers API.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// ShutdownTimeout bounds how long in-flight requests may run after SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// LLM provider used by the estimate chat
	LLM LLMConfig `yaml:"llm"`

	// Anonymous session cookie
	Session SessionConfig `yaml:"session"`

	// Contact form notifications
	Email EmailConfig `yaml:"email"`

	// Public site information (sitemap)
	Site SiteConfig `yaml:"site"`

	// Conversation retention
	Retention RetentionConfig `yaml:"retention"`

	// Prometheus metrics
	Metrics MetricsConfig `yaml:"metrics"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sprintlaunchers"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sprintlaunchers"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// LLMConfig selects and configures the language model behind the chat.
type LLMConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"LLM_BASE_URL" env-default:""` // Provider default if empty
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	Temperature float64 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.7"`
	MaxTokens   int     `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1000"`

	// Timeout bounds a single model call. Zero leaves only the request context.
	Timeout time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"60s"`
}

// SessionConfig holds settings for the anonymous chat session cookie.
type SessionConfig struct {
	// Secret signs the cookie. Any passphrase; it is hashed to a 32-byte key.
	Secret     string `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
	CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"sessionId"`
	MaxAgeDays int    `yaml:"max_age_days" env:"SESSION_MAX_AGE_DAYS" env-default:"30"`

	// CookieDomain is optional. If empty, the cookie is host-only.
	CookieDomain string `yaml:"cookie_domain" env:"COOKIE_DOMAIN" env-default:""`
}

// EmailConfig configures the contact-form notification sender.
type EmailConfig struct {
	APIURL string `yaml:"api_url" env:"EMAIL_API_URL" env-default:"https://api.resend.com/emails"`
	APIKey string `yaml:"-" env:"EMAIL_API_KEY"` // Secret - not in YAML
	From   string `yaml:"from" env:"EMAIL_FROM" env-default:"SprintLaunchers <noreply@sprintlaunchers.com>"`
	To     string `yaml:"to" env:"EMAIL_TO" env-default:""`

	Timeout time.Duration `yaml:"timeout" env:"EMAIL_TIMEOUT" env-default:"10s"`
}

// IsConfigured returns true if notifications can be sent.
func (c *EmailConfig) IsConfigured() bool {
	return c.APIKey != "" && c.To != ""
}

// SiteConfig describes the public marketing site.
type SiteConfig struct {
	URL string `yaml:"url" env:"SITE_URL" env-default:"https://sprintlaunchers.com"`
}

// RetentionConfig controls pruning of stale conversations.
type RetentionConfig struct {
	// Schedule is a standard 5-field cron expression. Empty disables pruning.
	Schedule string `yaml:"schedule" env:"RETENTION_SCHEDULE" env-default:""`
	Days     int    `yaml:"days" env:"RETENTION_DAYS" env-default:"90"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"sprintlaunchers"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	return LoadFromFile("config.yaml", version)
}

// LoadFromFile reads configuration from the given YAML file with environment
// variable overrides.
func LoadFromFile(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive")
	}
	if c.Retention.Days <= 0 {
		return fmt.Errorf("retention days must be positive")
	}
	return nil
}

// LLM provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ConnectionString returns a PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}
