package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ethnicityfacts/adapters/postgres"
	"ethnicityfacts/internal/config"
	"ethnicityfacts/internal/migration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing CMS tables in DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}

			db, err := postgres.Open(appConfig.Database.Driver, appConfig.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %s is up to date (%s)\n", runner.Version(), appConfig.Database.Driver)
			return nil
		},
	}
}
