package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/finhealth/internal/storage"
	"github.com/wonny/finhealth/pkg/database"
	"github.com/wonny/finhealth/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	migrations, err := storage.Migrations()
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	applied, err := db.Migrate(ctx, migrations)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"available": len(migrations),
		"applied":   applied,
	}).Info("Migrations complete")
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied migration %03d\n", v)
	}
	return nil
}
