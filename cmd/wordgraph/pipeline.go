package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matsen/wordgraph/internal/config"
	"github.com/matsen/wordgraph/internal/metrics"
	"github.com/matsen/wordgraph/internal/pipeline"
	"github.com/matsen/wordgraph/internal/similarity"
	"github.com/matsen/wordgraph/internal/storage"
	"github.com/matsen/wordgraph/internal/word"
)

// pipelineFlags are the flags shared by every command that runs the pipeline.
// Set flags override the config file.
type pipelineFlags struct {
	records     string
	db          string
	threshold   float64
	minTime     float64
	maxTime     float64
	period      string
	clusters    int
	seed        uint64
	perPair     bool
	metricsFile string
}

func (f *pipelineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.records, "records", "", "Word records file (JSONL or JSON array)")
	fs.StringVar(&f.db, "db", "", "SQLite cache built by 'wordgraph cache rebuild' (used when --records is not set)")
	fs.Float64Var(&f.threshold, "threshold", 0, "Minimum similarity for a link (default from config: 0.5)")
	fs.Float64Var(&f.minTime, "min-time", 0, "Minimum activity time in hours")
	fs.Float64Var(&f.maxTime, "max-time", 0, "Maximum activity time in hours (default from config: 12)")
	fs.StringVar(&f.period, "period", "", "Period to keep, or \"all\"")
	fs.IntVar(&f.clusters, "clusters", 0, "Number of k-means clusters (default from config: 5)")
	fs.Uint64Var(&f.seed, "seed", 0, "Seed for reproducible similarity jitter and clustering")
	fs.BoolVar(&f.perPair, "per-pair", false, "Draw jitter per ordered pair (asymmetric similarity)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path")
}

// loadConfig reads the config file and applies any flags the user set.
func (f *pipelineFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("min-time") {
		cfg.MinTime = f.minTime
	}
	if flags.Changed("max-time") {
		cfg.MaxTime = f.maxTime
	}
	if flags.Changed("period") {
		cfg.Period = f.period
	}
	if flags.Changed("clusters") {
		cfg.Clusters = f.clusters
	}
	if flags.Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}
	if flags.Changed("per-pair") {
		cfg.PerPairDraws = f.perPair
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRecords reads records from --records, or from the --db cache.
func (f *pipelineFlags) loadRecords(ctx context.Context) ([]word.Record, error) {
	switch {
	case f.records != "":
		if _, err := os.Stat(f.records); err != nil {
			return nil, err
		}
		records, err := storage.ReadRecords(f.records)
		if err != nil {
			return nil, err
		}
		logger.Sugar().Debugf("read %d records from %s", len(records), f.records)
		return records, nil
	case f.db != "":
		db, err := storage.OpenDB(f.db)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.AllRecords(ctx)
	default:
		return nil, fmt.Errorf("one of --records or --db is required")
	}
}

// newAssembler wires an assembler from the effective config.
func newAssembler(cfg *config.Config, collector *metrics.Collector) *pipeline.Assembler {
	opts := []pipeline.Option{
		pipeline.WithEstimator(similarity.NewEstimator(cfg.EstimatorOptions()...)),
		pipeline.WithClusterOptions(cfg.ClusterOptions()),
		pipeline.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if collector != nil {
		opts = append(opts, pipeline.WithMetrics(collector))
	}
	return pipeline.New(logger, opts...)
}

// newCollector returns a metrics collector when --metrics-file is set.
func (f *pipelineFlags) newCollector() *metrics.Collector {
	if f.metricsFile == "" {
		return nil
	}
	return metrics.NewCollector("wordgraph")
}

// writeMetrics flushes collected metrics to --metrics-file, if set.
func (f *pipelineFlags) writeMetrics(c *metrics.Collector) {
	if c == nil {
		return
	}
	if err := c.WriteTextfile(f.metricsFile); err != nil {
		logger.Sugar().Warnf("writing metrics: %v", err)
	}
}

// mustPrepare loads config and records, exits on error.
func (f *pipelineFlags) mustPrepare(cmd *cobra.Command) (*config.Config, []word.Record) {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	records, err := f.loadRecords(cmd.Context())
	if err != nil {
		exitWithError(ExitDataError, "loading records: %v", err)
	}
	return cfg, records
}
