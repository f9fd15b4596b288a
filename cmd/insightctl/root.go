package main

import (
	"insightbff/internal/platform/config"
	"insightbff/internal/platform/logger"

	"github.com/spf13/cobra"
)

var (
	// dbURL overrides SERVICE_PGSQL_DBURL
	dbURL string
)

var rootCmd = &cobra.Command{
	Use:           "insightctl",
	Short:         "Maintenance commands for the insight BFF",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.Init(logger.FromEnv())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Postgres URL (default: $SERVICE_PGSQL_DBURL)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(warmCmd)
}

// pgURL returns --db or the configured URL
func pgURL() string {
	if dbURL != "" {
		return dbURL
	}
	return config.New().Prefix("SERVICE_PGSQL_").MustString("DBURL")
}
