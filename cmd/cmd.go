// Package cmd defines the command-line interface for repoviz.
package cmd

import (
	"github.com/huangsam/repoviz/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(legendCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("host", "github.com", "Repository host accepted in locator URLs")
	rootCmd.PersistentFlags().String("provider", "github", "Access provider: github or git")
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "Base URL of the GitHub REST API")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (defaults to $GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("mirror-root", "", "Directory holding <owner>/<repo> mirrors for the git provider")
	rootCmd.PersistentFlags().StringP("extension", "e", ".java", "File extension to analyze")
	rootCmd.PersistentFlags().Int("yellow", 5, "Complexity above which a file is medium")
	rootCmd.PersistentFlags().Int("red", 10, "Complexity above which a file is high")
	rootCmd.PersistentFlags().String("output", "text", "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print raw byte sizes and RGBA colors")
	rootCmd.PersistentFlags().String("fetch-timeout", contract.DefaultFetchTimeout, "Timeout for each listing or fetch call")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Attempts per GitHub request")
	rootCmd.PersistentFlags().Int("cache-size", contract.DefaultCacheSize, "Fetched file contents kept in memory (0 = off)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Lifetime of cached file contents (empty = no expiry)")
	rootCmd.PersistentFlags().String("history-backend", "", "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in console headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().String("watch", "", "Re-run the analysis on this interval (e.g. 5m)")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Listen address for the websocket server")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
