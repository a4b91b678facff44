// Package httpd implements the httpd command serving the cover API.
package httpd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/common"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/api"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/version"
)

// Command returns the httpd command.
func Command() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "httpd",
		Short: "Serve the title and cover API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			if port > 0 {
				deps.Config.Server.Port = port
			}

			server := NewServer(deps)
			return server.RunWithGracefulShutdown(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	return cmd
}

// NewServer wires the API server from deps.
func NewServer(deps *common.Deps) *api.Server {
	cfg := deps.Config.Server
	handler := api.NewHandler(deps.Service, deps.Logger)

	deps.Logger.Info("Configuring HTTP API",
		logger.Int("poll_max_attempts", deps.Config.Poll.MaxAttempts),
		logger.Duration("poll_interval", deps.Config.Poll.Interval),
		logger.Strings("cors_origins", cfg.CORSOrigins),
	)

	return api.NewServer(api.Config{
		Address:        cfg.Address(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		CORSOrigins:    cfg.CORSOrigins,
		Debug:          deps.Config.Logging.Development,
		ServiceVersion: version.Version,
	}, deps.Logger, api.Routes(handler, deps.Metrics.Handler(), version.Version))
}
