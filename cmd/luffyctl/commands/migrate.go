package commands

import (
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/repository/pgrepo"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, opts, true)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, opts, false)
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	return migrateCmd
}

func runMigrate(cmd *cobra.Command, opts *globalOptions, up bool) error {
	if err := opts.requireDB(); err != nil {
		return err
	}

	direction := "down"
	if up {
		direction = "up"
	}
	opts.log.WithField("dir", opts.migrationsDir).Infof("migrate %s", direction)

	if err := pgrepo.Migrate(opts.migrationsDir, opts.dbURL, up); err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", direction)
	return nil
}
