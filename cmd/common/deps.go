// Package common builds the dependencies shared by the commands.
package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/config"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/cover"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/download"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/httpclient"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/metrics"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/page"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

// Viper keys bound to the root command's persistent flags.
const (
	KeyConfig    = "config"
	KeyDebug     = "debug"
	KeyLogFormat = "log_format"
)

// ErrConfigRequired is returned when Deps is built without a config.
var ErrConfigRequired = errors.New("config is required")

// Deps holds the wired application components.
type Deps struct {
	Config     *config.Config
	Logger     logger.Logger
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Engine     *title.Engine
	Loader     *page.Loader
	Runner     *workflow.Runner
	Service    *cover.Service
	Sink       *download.FileSink
}

// NewDeps loads configuration from the path viper resolved and wires every
// component.
func NewDeps() (*Deps, error) {
	cfg, err := config.Load(viper.GetString(KeyConfig))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if viper.GetBool(KeyDebug) {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	if format := viper.GetString(KeyLogFormat); format != "" {
		cfg.Logging.Format = format
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return Build(cfg, log)
}

// Build wires components from an already loaded config.
func Build(cfg *config.Config, log logger.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	rules := title.DefaultRules()
	if cfg.Title.RulesFile != "" {
		loaded, err := title.LoadRules(cfg.Title.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load title rules: %w", err)
		}
		rules = loaded
		log.Info("Loaded title rules",
			logger.String("path", cfg.Title.RulesFile),
			logger.Int("platforms", len(rules.Platforms)),
		)
	}

	m := metrics.New()
	client := httpclient.New(httpclient.Config{Timeout: cfg.Coze.RequestTimeout})

	engine := title.NewEngine(log, title.WithRules(rules), title.WithObserver(m))
	loader := page.NewLoader(page.LoaderConfig{
		UserAgent: cfg.Title.UserAgent,
		Timeout:   cfg.Title.FetchTimeout,
		Transport: client.Transport,
		Rules:     &rules,
	}, log)
	runner := workflow.NewRunner(
		workflow.NewClient(cfg.Coze.BaseURL, client, log),
		log,
		workflow.WithPollPolicy(cfg.Poll.MaxAttempts, cfg.Poll.Interval),
		workflow.WithObserver(m),
	)

	return &Deps{
		Config:     cfg,
		Logger:     log,
		HTTPClient: client,
		Metrics:    m,
		Engine:     engine,
		Loader:     loader,
		Runner:     runner,
		Service:    cover.NewService(loader, engine, runner, cover.StaticCredentials(cfg.Credentials()), log),
		Sink:       download.NewFileSink(cfg.Download.Dir, client, log),
	}, nil
}
