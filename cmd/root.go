package cmd

import (
	"rangers/internal/config"
	"rangers/internal/logger"

	"github.com/spf13/cobra"
)

var logLevel string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "rangers",
	Short: "Campaign tracker for Earthborne Rangers decks and trades",
	Long: `Rangers tracks Earthborne Rangers campaigns: ranger creation with a validated
30-card starting deck, the campaign reward pool, and the per-ranger trade ledger
from which the current decklist is projected.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (DEBUG, INFO, WARN, ERROR)")

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(migrateCmd)
	RootCmd.AddCommand(catalogCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the environment and initializes the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	return cfg, nil
}
