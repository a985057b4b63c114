// Package main provides the query normalizer CLI entrypoint.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shopsense-ai/query-normalizer/internal/cache"
	"github.com/shopsense-ai/query-normalizer/internal/config"
	"github.com/shopsense-ai/query-normalizer/internal/history"
	"github.com/shopsense-ai/query-normalizer/internal/normalizer"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "query-normalizer-cli",
	Short: "Query normalizer CLI for parsing, clarifying, and validating product queries",
	Long: `Query normalizer CLI turns free-text product search queries into structured,
validated search parameters.

Use this tool to:
- Normalize a single query, optionally answering clarification prompts
- Inspect the clarification questions a query would trigger
- Normalize query files in batch
- Browse and purge stored normalization sessions

All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}

		logLevel := cfg.Observability.LogLevel
		if !verbose {
			logLevel = "warn"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       logLevel,
			Format:      logFormat,
			ServiceName: "query-normalizer-cli",
		})

		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newNormalizeCmd())
	rootCmd.AddCommand(newAmbiguitiesCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if outputJSON {
				fmt.Println(`{"version": "0.1.0"}`)
				return
			}
			fmt.Println("query-normalizer-cli v0.1.0")
		},
	}
}

// buildNormalizer constructs a pipeline from the loaded configuration.
// CLI runs use the in-memory cache; Redis only pays off for long-lived
// processes.
func buildNormalizer() *normalizer.Normalizer {
	return normalizer.New(logger, cache.NewMemoryClient(cfg.Cache.MaxEntries), normalizer.Config{
		ConfidenceThreshold: cfg.Normalizer.ConfidenceThreshold,
		CacheResults:        cfg.Cache.Enabled,
		CacheTTL:            cfg.Cache.TTL,
	})
}

// openHistory opens the session store based on the configuration.
// Callers close the returned database handle.
func openHistory() (*sql.DB, *history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil, fmt.Errorf("session history is disabled in configuration")
	}

	db, err := history.Open(cfg.History.Driver, cfg.HistoryDSN())
	if err != nil {
		return nil, nil, err
	}

	if cfg.History.Driver == "sqlite" {
		db.SetMaxOpenConns(cfg.History.SQLite.MaxOpenConns)
	}

	return db, history.NewStore(db), nil
}
