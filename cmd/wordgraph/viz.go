package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/viz"
)

var (
	vizFlags   pipelineFlags
	vizOutput  string
	vizLayout  string
	vizOffline bool
	vizDark    bool
)

func init() {
	vizFlags.register(vizCmd.Flags())
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "", "Layout algorithm: force, circle, or grid (default from config)")
	vizCmd.Flags().BoolVar(&vizOffline, "offline", false, "Load cytoscape.min.js from next to the page instead of the CDN")
	vizCmd.Flags().BoolVar(&vizDark, "dark", false, "Use the dark theme")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate word graph visualization",
	Long: `Generate an interactive HTML visualization of the word graph.

Nodes are colored by cluster and sized by activity time. Link width
follows similarity. Click a word to highlight its neighbors.

Examples:
  # Generate HTML to stdout
  wordgraph viz --records words.jsonl > graph.html

  # Generate to file with a circular layout
  wordgraph viz --records words.jsonl --layout circle -o graph.html`,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	cfg, records := vizFlags.mustPrepare(cmd)

	collector := vizFlags.newCollector()
	a := newAssembler(cfg, collector)
	snap, err := a.Run(cmd.Context(), records, cfg.Params())
	vizFlags.writeMetrics(collector)
	if err != nil {
		exitWithError(exitCodeFor(err), "building graph: %v", err)
	}

	layout := cfg.Layout
	if vizLayout != "" {
		layout = vizLayout
	}
	html, err := renderHTML(snap, viz.HTMLOptions{Layout: layout, Offline: vizOffline, Dark: vizDark})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := writeHTML(vizOutput, html); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		outputHuman("Visualization written to %s\n", vizOutput)
		return nil
	}
	return outputJSON(OutputResponse{Output: vizOutput, Count: len(snap.Nodes)})
}

func renderHTML(snap *graph.Snapshot, opts viz.HTMLOptions) (string, error) {
	html, err := viz.GenerateHTML(viz.FromSnapshot(snap), opts)
	if err != nil {
		return "", fmt.Errorf("generating HTML: %w", err)
	}
	return html, nil
}

// writeHTML replaces path atomically so a browser reload never sees a partial page.
func writeHTML(path, html string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
