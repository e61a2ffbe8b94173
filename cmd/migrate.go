package main

import (
	"github.com/spf13/cobra"

	"moldmes/pkg/database"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	Long:  "Migrates all the way up by default. --steps N applies N migrations, a negative N rolls back.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return database.Migrate(cfg.Database.URL, migrateSteps, logger)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "Number of migrations to apply, negative to roll back (0 = all up)")
	rootCmd.AddCommand(migrateCmd)
}
