package cmd

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-accounts/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run: func(_ *cobra.Command, _ []string) {
		runMigration("up", migrations.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Run: func(_ *cobra.Command, _ []string) {
		runMigration("down", migrations.Down)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of every migration",
	Run: func(_ *cobra.Command, _ []string) {
		runMigration("status", migrations.Status)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigration(name string, fn func(ctx context.Context, db *sql.DB) error) {
	cfg := mustLoadConfig()
	db := mustOpenDB(cfg)
	defer closeDB(db)

	runJob("migrate_"+name, func() error { return fn(context.Background(), db) })
}
