package main

import (
	"fmt"

	"insightbff/internal/platform/logger"
	"insightbff/internal/platform/store/migrate"

	"github.com/spf13/cobra"
)

var migrateTarget uint

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema migrations",
	Long: `Apply the embedded schema migrations to the latest version, or to
--target when given. A dirty schema or a database newer than this binary
is refused.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().UintVar(&migrateTarget, "target", 0, "Schema version to migrate to (default: latest)")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	target := migrate.TargetLatest
	if cmd.Flags().Changed("target") {
		if migrateTarget > migrate.LatestVersion {
			return fmt.Errorf("target %d is newer than the latest shipped version %d", migrateTarget, migrate.LatestVersion)
		}
		target = migrate.TargetVersion(migrateTarget)
	}

	res, err := migrate.Apply(pgURL(), target, *logger.Get())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d -> %d\n", res.From, res.To)
	return nil
}
