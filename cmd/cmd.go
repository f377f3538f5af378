// Package cmd defines the command-line interface for fdr.
package cmd

import (
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(gameweekCmd)
	rootCmd.AddCommand(horizonCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("data-dir", "d", contract.DefaultDataDir, "Directory holding the normalized dataset")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of teams to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("season-gameweeks", schema.SeasonGameweeks, "Number of gameweeks in the season")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Response cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long fetched upstream responses stay fresh")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags are bound to Viper by sharedSetup for the running command only
	gameweekCmd.Flags().IntP("gameweek", "g", 0, "Gameweek to rate (0 = next unfinished gameweek)")

	horizonCmd.Flags().IntP("start", "s", 0, "First gameweek of the window (0 = next unfinished gameweek)")
	horizonCmd.Flags().Int("horizon", contract.DefaultHorizon, "Window length in gameweeks: 3 or 5 or 8 or 10")

	scheduleCmd.Flags().IntP("start", "s", 0, "First gameweek of the window (0 = next unfinished gameweek)")
	scheduleCmd.Flags().Int("horizon", contract.DefaultHorizon, "Window length in gameweeks: 3 or 5 or 8 or 10")
	scheduleCmd.Flags().StringP("team", "t", "", "Only show teams whose name contains this text")
	scheduleCmd.Flags().String("rank-by", string(schema.RankByAttack), "Order teams by attack or defence difficulty")

	tiersCmd.Flags().StringP("team", "t", "", "Look up one team's attack and defence tier")

	fetchCmd.Flags().String("api-base-url", contract.DefaultAPIBaseURL, "Base URL of the upstream fantasy API")
	fetchCmd.Flags().String("request-delay", contract.DefaultRequestDelay.String(), "Pause before every upstream request")
	fetchCmd.Flags().StringSlice("promoted", nil, "Teams to give placeholder statistics (comma-separated)")
	fetchCmd.Flags().Bool("force", false, "Ignore cached upstream responses")

	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP API to listen on")
	serveCmd.Flags().String("refresh-cron", "", "Cron schedule for refreshing the dataset (e.g. '0 */6 * * *')")
	serveCmd.Flags().String("api-base-url", contract.DefaultAPIBaseURL, "Base URL of the upstream fantasy API")
	serveCmd.Flags().String("request-delay", contract.DefaultRequestDelay.String(), "Pause before every upstream request")
	serveCmd.Flags().StringSlice("promoted", nil, "Teams to give placeholder statistics on refresh (comma-separated)")

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
