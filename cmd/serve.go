package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitstats/logger"
	"gitstats/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stats and demo pages over HTTP",
	Long: `Start the demo server. It warms the cache, refreshes it every --refresh-interval
and serves:

  GET /api/stats          the fallback chain result
  GET /api/dummy          generated dummy data (?multi=true for several profiles)
  GET /healthz            liveness
  GET /...                files from --static-dir

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}

		svc, err := service.NewService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.Warn("Error during service shutdown", zap.Error(err))
			}
		}()

		return svc.Start()
	},
}
