package cmd

import (
	"database/sql"
	"fmt"

	"rangers/internal/catalog"
	"rangers/internal/database"
	"rangers/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed the card catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Initialize(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		inserted, err := prepareDatabase(db, cfg.CatalogPath)
		if err != nil {
			return err
		}

		fmt.Printf("Database %s is up to date (%d cards added)\n", cfg.DatabasePath, inserted)
		return nil
	},
}

// prepareDatabase runs migrations and seeds the catalog. The catalog must
// pass its checks before anything is inserted.
func prepareDatabase(db *sql.DB, catalogPath string) (int, error) {
	if err := database.Migrate(db); err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return 0, err
	}
	if results := cat.Check(); len(results.Errors) > 0 {
		return 0, fmt.Errorf("catalog has %d errors, run 'rangers catalog check' for details", len(results.Errors))
	}

	inserted, err := database.SeedCards(db, cat.Models())
	if err != nil {
		return 0, err
	}
	logger.Info("Catalog seeded", "cards", len(cat.Cards), "inserted", inserted)

	return inserted, nil
}
