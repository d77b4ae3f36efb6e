package main

import (
	"github.com/spf13/cobra"

	"github.com/vivacrm/dashboard-api/internal/app"
	"github.com/vivacrm/dashboard-api/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dashboard-api",
	Short: "Liveness check and dashboard query service",
	Long: `dashboard-api serves GET /health and GET /dashboard. Configuration is
read from the environment (and a .env file in the working directory).
Running it without a subcommand is the same as "dashboard-api serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server until SIGINT/SIGTERM",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthcheckCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return app.Run(config.Load())
}
