package main

import (
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/storage"
	"github.com/matsen/wordgraph/internal/word"
)

var (
	sampleCount  int
	sampleSeed   uint64
	sampleOutput string
)

func init() {
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 20, "Number of records to generate")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "Seed for reproducible output")
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate mock word records",
	Long: `Generate mock word records as JSONL from a built-in vocabulary.

Times fall in [0, 12] hours and periods in 2024-q1 through 2024-q4.

Examples:
  wordgraph sample -n 30 --seed 1 -o words.jsonl`,
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	var rng *rand.Rand
	if cmd.Flags().Changed("seed") {
		rng = rand.New(rand.NewPCG(sampleSeed, 0))
	}
	records := word.Sample(rng, sampleCount)

	if sampleOutput == "" {
		if err := storage.EncodeRecords(os.Stdout, records); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		return nil
	}

	if err := storage.WriteRecords(sampleOutput, records); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		outputHuman("Wrote %d records to %s\n", len(records), sampleOutput)
		return nil
	}
	return outputJSON(OutputResponse{Output: sampleOutput, Count: len(records)})
}
