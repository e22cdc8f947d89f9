// Package main provides the wordgraph CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matsen/wordgraph/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	configPath  string
	logLevel    string

	logger = zap.NewNop()
)

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		// SilenceErrors is set, so cobra errors (like missing required flags) are printed here.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wordgraph",
	Short: "Build word similarity graphs from timed word records",
	Long: `wordgraph turns word records (word, frequency, active time, period) into a
similarity graph: words are filtered by time range and period, linked when
their similarity meets a threshold, and grouped by k-means over activity
time and connection count.

Records are read from JSONL (or a JSON array) with an optional SQLite cache.
All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file if present (for WORDGRAPH_CONFIG and WORDGRAPH_LOG_LEVEL)
		_ = godotenv.Load()

		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if env := os.Getenv(config.EnvLogLevel); env != "" {
				level = env
			}
		}
		l, err := newLogger(level)
		if err != nil {
			exitWithError(ExitConfigError, "configuring logger: %v", err)
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $WORDGRAPH_CONFIG or ~/.config/wordgraph/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.Version = Version
}

// newLogger builds a stderr logger. Debug level gets the development console
// encoder; everything else logs JSON.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
