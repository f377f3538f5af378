package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/iocache"
	"github.com/huangsam/fdr/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisBackend reads the configured analysis backend, treating empty as none.
func analysisBackend() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(viper.GetString("analysis-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads only the configuration the run history needs.
func analysisSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := analysisBackend()
	if err != nil {
		return err
	}

	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup resolves the backend without creating tables, so
// migrations can run against a fresh database.
func analysisMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := analysisBackend()
	if err != nil {
		return err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd manages the history of rating runs.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage the history of rating runs and exports",
	Long: `Manage the stored history of gameweek, horizon and schedule runs.

When --analysis-backend is set, every rating run records:
- Run metadata (kind, window, timestamp, duration, settings)
- Each team's attack and defence rating with its rank

This makes it possible to watch how a team's run of fixtures changes week
to week, and to export the history for notebooks or BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show tracking statistics
  export  - Export data to Parquet
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  fdr analysis status
  fdr analysis export --output-file fdr-history`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored rating runs",
	Long: `Delete every stored run and team rating.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  fdr analysis export --output-file backup
  fdr analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, sqlitePath(cfg.AnalysisDBConnect, contract.GetAnalysisDBFilePath()), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, number of stored runs, newest and oldest run times,
total team ratings and table sizes.

Examples:
  fdr analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("analysis tracking is disabled; set --analysis-backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet",
	Long: `Export all stored runs and team ratings as Parquet files.

Writes <output-file>.runs.parquet and <output-file>.team_ratings.parquet.

Examples:
  fdr analysis export --output-file fdr-history
  duckdb -c "SELECT team_name, avg(attack) FROM read_parquet('fdr-history.team_ratings.parquet') GROUP BY 1"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  fdr analysis migrate
  fdr analysis migrate --target-version 1
  fdr analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
