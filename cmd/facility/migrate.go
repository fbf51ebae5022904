package main

import (
	"github.com/spf13/cobra"

	"github.com/maintworks/facility-api/internal/migration"
)

func newMigrateCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migration.RunMigrations(app.cfg.DatabaseURL, app.logger)
			return nil
		},
	}
}
