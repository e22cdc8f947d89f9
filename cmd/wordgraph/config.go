package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/wordgraph/internal/config"
)

var configFlags pipelineFlags

func init() {
	configFlags.register(configShowCmd.Flags())
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective parameters",
	Long: `Print the parameters a pipeline run would use: built-in defaults, then the
config file, then any flags given here.`,
	RunE: runConfigShow,
}

// ConfigResponse is the response for the config show command.
type ConfigResponse struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := configFlags.loadConfig(cmd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	path := config.ResolvePath(configPath)

	if humanOutput {
		outputHuman("Config file:     %s\n", path)
		outputHuman("Threshold:       %.2f\n", cfg.Threshold)
		outputHuman("Time range:      %.1f-%.1fh\n", cfg.MinTime, cfg.MaxTime)
		outputHuman("Period:          %s\n", cfg.Period)
		outputHuman("Clusters:        %d (max %d iterations)\n", cfg.Clusters, cfg.MaxIterations)
		if cfg.Seed != nil {
			outputHuman("Seed:            %d\n", *cfg.Seed)
		}
		outputHuman("Per-pair draws:  %t\n", cfg.PerPairDraws)
		if cfg.EmbeddingModel != "" {
			outputHuman("Embedding model: %s\n", cfg.EmbeddingModel)
		}
		outputHuman("Layout:          %s\n", cfg.Layout)
		return nil
	}
	return outputJSON(ConfigResponse{Path: path, Config: cfg})
}
