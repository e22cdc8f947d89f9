package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/word"
)

var periodsFlags pipelineFlags

func init() {
	periodsCmd.Flags().StringVar(&periodsFlags.records, "records", "", "Word records file (JSONL or JSON array)")
	periodsCmd.Flags().StringVar(&periodsFlags.db, "db", "", "SQLite cache (used when --records is not set)")
	rootCmd.AddCommand(periodsCmd)
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the periods present in the records",
	Long: `List the distinct periods in the records, preceded by "all".

Any of these values can be passed to --period.`,
	RunE: runPeriods,
}

// PeriodsResponse is the response for the periods command.
type PeriodsResponse struct {
	Periods []string `json:"periods"`
}

func runPeriods(cmd *cobra.Command, args []string) error {
	records, err := periodsFlags.loadRecords(cmd.Context())
	if err != nil {
		exitWithError(ExitDataError, "loading records: %v", err)
	}

	periods := append([]string{word.AllPeriods}, word.Periods(records)...)
	if humanOutput {
		for _, p := range periods {
			outputHuman("%s\n", p)
		}
		return nil
	}
	return outputJSON(PeriodsResponse{Periods: periods})
}
