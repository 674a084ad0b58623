package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/portbattle-go/internal/adapters/persistence"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Run schema migrations against the configured database, including the
partial unique indexes that guard role claims and pending applications.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := persistence.Migrate(db); err != nil {
				return err
			}
			fmt.Printf("✓ Schema up to date (%d tables)\n", len(persistence.Models()))
			return nil
		},
	}
}
