package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/page"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

// Config is the complete application configuration.
type Config struct {
	Coze     CozeConfig     `yaml:"coze"`
	Poll     PollConfig     `yaml:"poll"`
	Title    TitleConfig    `yaml:"title"`
	Download DownloadConfig `yaml:"download"`
	Server   ServerConfig   `yaml:"server"`
	Logging  logger.Config  `yaml:"logging"`
}

// CozeConfig holds the workflow API credentials and endpoint. Credentials
// are checked per request, not at load time.
type CozeConfig struct {
	APIToken       string        `env:"COZE_API_TOKEN"       yaml:"api_token"`
	WorkflowID     string        `env:"COZE_WORKFLOW_ID"     yaml:"workflow_id"`
	BaseURL        string        `env:"COZE_BASE_URL"        yaml:"base_url"`
	RequestTimeout time.Duration `env:"COZE_REQUEST_TIMEOUT" yaml:"request_timeout"`
}

// PollConfig is the asynchronous run polling policy.
type PollConfig struct {
	MaxAttempts int           `env:"POLL_MAX_ATTEMPTS" yaml:"max_attempts"`
	Interval    time.Duration `env:"POLL_INTERVAL"     yaml:"interval"`
}

// TitleConfig configures page loading and title inference.
type TitleConfig struct {
	RulesFile    string        `env:"TITLE_RULES_FILE"    yaml:"rules_file"`
	RescanDelay  time.Duration `env:"TITLE_RESCAN_DELAY"  yaml:"rescan_delay"`
	FetchTimeout time.Duration `env:"TITLE_FETCH_TIMEOUT" yaml:"fetch_timeout"`
	UserAgent    string        `env:"TITLE_USER_AGENT"    yaml:"user_agent"`
}

// DownloadConfig configures where images are saved.
type DownloadConfig struct {
	Dir string `env:"DOWNLOAD_DIR" yaml:"dir"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// Address returns host:port.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Defaults.
const (
	DefaultServerPort     = 8095
	DefaultRequestTimeout = 30 * time.Second
	DefaultDownloadDir    = "covers"
	// A full default poll cycle (30 x 2s) fits inside the write timeout.
	defaultWriteTimeout = 90 * time.Second
)

// SetDefaults fills every unset field.
func SetDefaults(c *Config) {
	if c.Coze.BaseURL == "" {
		c.Coze.BaseURL = workflow.DefaultBaseURL
	}
	if c.Coze.RequestTimeout == 0 {
		c.Coze.RequestTimeout = DefaultRequestTimeout
	}
	if c.Poll.MaxAttempts == 0 {
		c.Poll.MaxAttempts = workflow.DefaultMaxAttempts
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = workflow.DefaultPollInterval
	}
	if c.Title.RescanDelay == 0 {
		c.Title.RescanDelay = title.DefaultRescanDelay
	}
	if c.Title.FetchTimeout == 0 {
		c.Title.FetchTimeout = page.DefaultFetchTimeout
	}
	if c.Title.UserAgent == "" {
		c.Title.UserAgent = page.DefaultUserAgent
	}
	if c.Download.Dir == "" {
		c.Download.Dir = DefaultDownloadDir
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	c.Logging.SetDefaults()
}

// Load reads the configuration at path (which may be empty or absent).
func Load(path string) (*Config, error) {
	cfg, err := LoadWithDefaults[Config](path, SetDefaults)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Credentials returns the workflow credentials from the coze section.
func (c *Config) Credentials() workflow.Credentials {
	return workflow.Credentials{APIToken: c.Coze.APIToken, WorkflowID: c.Coze.WorkflowID}
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = append(errs, &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"})
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, &ValidationError{Field: "logging.format", Message: "must be one of: json, console"})
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, &ValidationError{Field: "server.port", Message: "must be between 1 and 65535"})
	}
	if c.Poll.MaxAttempts < 1 {
		errs = append(errs, &ValidationError{Field: "poll.max_attempts", Message: "must be at least 1"})
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, &ValidationError{Field: "poll.interval", Message: "must be positive"})
	}
	if c.Title.RescanDelay <= 0 {
		errs = append(errs, &ValidationError{Field: "title.rescan_delay", Message: "must be positive"})
	}

	return errors.Join(errs...)
}
