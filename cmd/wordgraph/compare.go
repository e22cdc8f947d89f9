package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/word"
)

var (
	compareFlags   pipelineFlags
	comparePeriods string
)

func init() {
	compareFlags.register(compareCmd.Flags())
	compareCmd.Flags().StringVar(&comparePeriods, "periods", "", "Comma-separated periods to compare (default: every period in the records)")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Build one graph per period for side-by-side comparison",
	Long: `Build one word graph per period with the same threshold, time range and
cluster settings, so the periods can be compared.

Examples:
  wordgraph compare --records words.jsonl --periods 2024-q1,2024-q2
  wordgraph compare --records words.jsonl --human`,
	RunE: runCompare,
}

// CompareResponse is the response for the compare command.
type CompareResponse struct {
	Snapshots []*graph.Snapshot `json:"snapshots"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, records := compareFlags.mustPrepare(cmd)

	periods := splitPeriods(comparePeriods)
	if len(periods) == 0 {
		periods = word.Periods(records)
	}
	if len(periods) == 0 {
		exitWithError(ExitDataError, "no periods to compare")
	}

	a := newAssembler(cfg, nil)
	snaps, err := a.BuildPeriods(cmd.Context(), records, cfg.Params(), periods)
	if err != nil {
		exitWithError(exitCodeFor(err), "comparing periods: %v", err)
	}

	if humanOutput {
		for i, s := range snaps {
			if i > 0 {
				outputHuman("\n")
			}
			printSnapshotHuman(s)
		}
		return nil
	}
	return outputJSON(CompareResponse{Snapshots: snaps})
}

func splitPeriods(s string) []string {
	var periods []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			periods = append(periods, p)
		}
	}
	return periods
}
