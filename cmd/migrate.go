package cmd

import (
	"log"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/databases"
)

var migrateUpCmd = &cobra.Command{
	Use:   "migrate-up",
	Short: "Applies pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configs.Get()

		migrator, err := databases.NewMigrate(cfg)
		if err != nil {
			log.Fatalf("failed to create migrator: %v", err)
		}

		if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("failed to run migrations: %v", err)
		}

		log.Println("migrations applied")
	},
}
