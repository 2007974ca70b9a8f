package main

import (
	"github.com/spf13/cobra"

	"github.com/ahsanfayaz52/noteservice/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		dbConn, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := db.Migrate(cmd.Context(), dbConn, cfg.DBDriver); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("Schema is up to date")
		return nil
	},
}
