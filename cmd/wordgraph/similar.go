package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/similarity"
)

var (
	similarFlags pipelineFlags
	similarLimit int
)

func init() {
	similarFlags.register(similarCmd.Flags())
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 10, "Maximum number of results")
	rootCmd.AddCommand(similarCmd)
}

var similarCmd = &cobra.Command{
	Use:   "similar <word>",
	Short: "List the words most similar to a word",
	Long: `List the words most similar to a word among the filtered records.

Only words scoring at or above the threshold are shown, highest first.

Examples:
  wordgraph similar cat --records words.jsonl
  wordgraph similar cat --records words.jsonl --threshold 0 --limit 3`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

// SimilarResult is one neighbor of the queried word.
type SimilarResult struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
	Time       float64 `json:"time"`
	Period     string  `json:"period"`
}

// SimilarResponse is the response for the similar command.
type SimilarResponse struct {
	Word    string          `json:"word"`
	Results []SimilarResult `json:"results"`
}

func runSimilar(cmd *cobra.Command, args []string) error {
	target := args[0]
	cfg, records := similarFlags.mustPrepare(cmd)

	nodes := graph.FilterRecords(records, cfg.Params())
	idx := -1
	words := make([]string, len(nodes))
	for i, n := range nodes {
		words[i] = n.Word
		if n.Word == target {
			idx = i
		}
	}
	if idx < 0 {
		exitWithError(ExitDataError, "word %q not found in the selected records", target)
	}

	matrix := similarity.NewEstimator(cfg.EstimatorOptions()...).Compute(words)
	neighbors := matrix.Neighbors(idx, similarLimit, cfg.Threshold)

	resp := SimilarResponse{Word: target, Results: make([]SimilarResult, 0, len(neighbors))}
	for _, nb := range neighbors {
		n := nodes[nb.Index]
		resp.Results = append(resp.Results, SimilarResult{
			Word:       n.Word,
			Similarity: nb.Value,
			Time:       n.Time,
			Period:     n.Period,
		})
	}

	if humanOutput {
		if len(resp.Results) == 0 {
			outputHuman("No words similar to %q at threshold %.2f\n", target, cfg.Threshold)
			return nil
		}
		for i, r := range resp.Results {
			outputHuman("%d. [%.3f] %s (%.1fh, %s)\n", i+1, r.Similarity, r.Word, r.Time, r.Period)
		}
		return nil
	}
	return outputJSON(resp)
}
