// Package commands реализует утилиту обслуживания luffyctl: миграции, демо-данные и создание администратора.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsdevblog/luffy-streaming/internal/config"
	"github.com/fsdevblog/luffy-streaming/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalOptions значения постоянных флагов. По умолчанию берутся из окружения (DATABASE_URI,
// MIGRATIONS_DIR, JWT_SECRET) и .env.
type globalOptions struct {
	dbURL         string
	migrationsDir string
	verbose       bool

	conf *config.Config
	log  *logrus.Logger
}

func newRootCmd(conf *config.Config) *cobra.Command {
	opts := &globalOptions{conf: conf}

	rootCmd := &cobra.Command{
		Use:   "luffyctl",
		Short: "Luffy Streaming maintenance tool",
		Long: `luffyctl manages the Luffy Streaming database outside of the API server.

Commands:
  migrate up|down  - apply or roll back schema migrations
  seed             - fill an empty database with demo data
  create-admin     - create an admin account or promote an existing user`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logOpts := []logger.Option{logger.WithFields(logrus.Fields{"service": "luffyctl", "command": cmd.Name()})}
			if opts.verbose {
				logOpts = append(logOpts, logger.WithLevel(logrus.DebugLevel))
			}
			opts.log = logger.New(cmd.ErrOrStderr(), logOpts...)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbURL, "db", conf.DatabaseDSN,
		"Database connection URL (defaults to DATABASE_URI)")
	rootCmd.PersistentFlags().StringVar(&opts.migrationsDir, "migrations-dir", conf.MigrationsDir,
		"Directory with SQL migrations (defaults to MIGRATIONS_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newCreateAdminCmd(opts),
	)
	return rootCmd
}

// Execute запускает корневую команду.
func Execute() {
	conf, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(conf).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *globalOptions) requireDB() error {
	if o.dbURL == "" {
		return errors.New("--db flag or DATABASE_URI is required")
	}
	return nil
}
