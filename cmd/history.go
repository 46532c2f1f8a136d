package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/internal/iocache"
	"github.com/huangsam/repoviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings.
// An empty backend means tracking is disabled.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := strings.ToLower(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This avoids locator validation and provider construction.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	if err := iocache.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup does NOT initialize the store or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on history data management.
//
// Note: History subcommands use minimal initialization instead of the full
// sharedSetup, since they never contact a repository.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded analysis runs and exports",
	Long: `Manage the analysis runs recorded when --history-backend is set.

Each run stores its locator, timing, outcome and configuration, and a
completed run also stores one row per analyzed file.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  repoviz analyze https://github.com/acme/widgets --history-backend sqlite

  # Check tracking status
  repoviz history status --history-backend sqlite`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, connection status, run counts, timestamps of the
newest and oldest runs, and row counts per table.

Examples:
  repoviz history status --history-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			fmt.Println("History tracking is disabled.")
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded history",
	Long: `Delete all stored runs and file rows. For SQLite the database file is
removed; for MySQL and PostgreSQL the history tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  repoviz history export --history-backend sqlite --output-file backup.parquet
  repoviz history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and files to Parquet",
	Long: `Export all stored history to two Parquet files derived from
--output-file: <name>.analysis_runs.parquet and <name>.file_records.parquet.

Requires: --output-file parameter

Examples:
  repoviz history export --history-backend sqlite --output-file repoviz
  duckdb -c "SELECT * FROM read_parquet('repoviz.analysis_runs.parquet')"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  repoviz history migrate --history-backend sqlite

  # Rollback to initial state
  repoviz history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
