package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mynotes/internal/database"
	"mynotes/internal/database/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the notes schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewPostgres(cmd.Context(), cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(cmd.Context(), db, log, cfg.Database.Host); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
