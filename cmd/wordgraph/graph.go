package main

import (
	"github.com/spf13/cobra"
)

var graphFlags pipelineFlags

func init() {
	graphFlags.register(graphCmd.Flags())
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the word graph and print it",
	Long: `Build a word similarity graph and print the snapshot.

Records are filtered to the time range and period, linked when their
similarity meets the threshold, and grouped into clusters.

Examples:
  wordgraph graph --records words.jsonl
  wordgraph graph --records words.jsonl --threshold 0.7 --period 2024-q2
  wordgraph graph --db .wordgraph/cache.db --seed 42 --human`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, records := graphFlags.mustPrepare(cmd)

	collector := graphFlags.newCollector()
	a := newAssembler(cfg, collector)
	snap, err := a.Run(cmd.Context(), records, cfg.Params())
	graphFlags.writeMetrics(collector)
	if err != nil {
		exitWithError(exitCodeFor(err), "building graph: %v", err)
	}

	if humanOutput {
		printSnapshotHuman(snap)
		return nil
	}
	return outputJSON(snap)
}
