package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/storage"
)

var (
	cacheRecords string
	cacheDB      string
)

func init() {
	cacheRebuildCmd.Flags().StringVar(&cacheRecords, "records", "", "Word records file (JSONL or JSON array)")
	cacheRebuildCmd.Flags().StringVar(&cacheDB, "db", "", "SQLite cache file to rebuild")
	_ = cacheRebuildCmd.MarkFlagRequired("records")
	_ = cacheRebuildCmd.MarkFlagRequired("db")

	cacheCmd.AddCommand(cacheRebuildCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the SQLite record cache",
}

var cacheRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from a records file",
	Long: `Rebuild the SQLite query cache from the records file.

The records file stays the source of truth. Run this after editing it;
commands read the cache when given --db without --records.`,
	RunE: runCacheRebuild,
}

// RebuildResult is the response for the cache rebuild command.
type RebuildResult struct {
	Status  string                `json:"status"`
	Records int                   `json:"records"`
	Periods []storage.PeriodCount `json:"periods"`
}

func runCacheRebuild(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cacheRecords); err != nil {
		exitWithError(ExitDataError, "reading records: %v", err)
	}
	if dir := filepath.Dir(cacheDB); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating cache directory: %v", err)
		}
	}

	db, err := storage.OpenDB(cacheDB)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	n, err := db.RebuildFromJSONL(ctx, cacheRecords)
	if err != nil {
		exitWithError(exitCodeForRebuild(err), "rebuilding cache: %v", err)
	}
	periods, err := db.PeriodCounts(ctx)
	if err != nil {
		exitWithError(ExitError, "counting periods: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt cache with %d records\n", n)
		for _, p := range periods {
			outputHuman("  %-12s %d\n", p.Period, p.Count)
		}
		return nil
	}
	return outputJSON(RebuildResult{Status: "rebuilt", Records: n, Periods: periods})
}

// exitCodeForRebuild treats unreadable and invalid records alike as data errors.
func exitCodeForRebuild(err error) int {
	if code := exitCodeFor(err); code != ExitError {
		return code
	}
	return ExitDataError
}
