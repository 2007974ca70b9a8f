package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ahsanfayaz52/noteservice/internal/config"
	"github.com/ahsanfayaz52/noteservice/internal/db"
	"github.com/ahsanfayaz52/noteservice/internal/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "noteservice",
	Short:         "Note-taking REST API with per-user notes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// setup loads configuration and builds the root logger shared by all
// subcommands.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Logger{}, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cfg, log, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case db.DriverSQLite:
		return db.OpenSQLite(ctx, cfg.DatabasePath)
	default:
		return db.OpenMySQL(ctx, cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName)
	}
}
