package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/viz"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputJSONCompact writes a value as compact JSON to stdout.
func outputJSONCompact(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OutputResponse reports a file written by a command.
type OutputResponse struct {
	Output string `json:"output"`
	Count  int    `json:"count,omitempty"`
}

// printSnapshotHuman prints a snapshot summary and its links.
func printSnapshotHuman(s *graph.Snapshot) {
	outputHuman("Period %s, time %.1f-%.1fh, threshold %.2f (%s)\n",
		s.Params.Period, s.Params.MinTime, s.Params.MaxTime,
		s.Params.Threshold, viz.ThresholdLabel(s.Params.Threshold))
	outputHuman("%d nodes, %d links, %d clusters\n", len(s.Nodes), len(s.Links), s.Clusters)

	sizes := s.GroupSizes()
	groups := make([]int, 0, len(sizes))
	for g := range sizes {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	for _, g := range groups {
		outputHuman("  group %d: %d words\n", g, sizes[g])
	}

	if len(s.Links) > 0 {
		outputHuman("\nLinks:\n")
		for _, l := range s.Links {
			outputHuman("  %-16s %-16s %.3f\n", l.Source, l.Target, l.Value)
		}
	}
}
