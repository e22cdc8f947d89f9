package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matsen/wordgraph/internal/config"
	"github.com/matsen/wordgraph/internal/similarity"
	"github.com/matsen/wordgraph/internal/viz"
)

// MinRebuildInterval caps rebuilds at one per interval however fast files change.
const MinRebuildInterval = time.Second

var (
	watchFlags    pipelineFlags
	watchOutput   string
	watchLayout   string
	watchDebounce time.Duration
)

func init() {
	watchFlags.register(watchCmd.Flags())
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "HTML file to keep up to date")
	watchCmd.Flags().StringVar(&watchLayout, "layout", "", "Layout algorithm: force, circle, or grid (default from config)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", config.DefaultDebounce, "Wait this long for writes to settle")
	_ = watchCmd.MarkFlagRequired("output")
	_ = watchCmd.MarkFlagRequired("records")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the visualization whenever records or config change",
	Long: `Watch the records file and the config file, rebuilding the graph and
rewriting the HTML page after each change. A failed rebuild keeps the last
good page. Stop with Ctrl-C.

Examples:
  wordgraph watch --records words.jsonl --config wordgraph.yml -o graph.html`,
	RunE: runWatch,
}

// WatchEvent is printed each time the page is rewritten.
type WatchEvent struct {
	Output     string `json:"output"`
	Generation uint64 `json:"generation"`
	Nodes      int    `json:"nodes"`
	Links      int    `json:"links"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, _ := watchFlags.mustPrepare(cmd)

	paths := []string{watchFlags.records}
	cfgFile := config.ResolvePath(configPath)
	if _, err := os.Stat(cfgFile); err == nil {
		paths = append(paths, cfgFile)
	}
	w, err := config.NewWatcher(logger, watchDebounce, paths...)
	if err != nil {
		exitWithError(ExitError, "starting watcher: %v", err)
	}
	defer w.Close()

	collector := watchFlags.newCollector()
	a := newAssembler(cfg, collector)
	updates := a.Subscribe()

	var layout atomic.Value
	layout.Store(cfg.Layout)

	// Config is re-read on every rebuild so edits to seed, clusters or
	// threshold take effect without a restart.
	rebuild := func(ctx context.Context) {
		cfg, err := watchFlags.loadConfig(cmd)
		if err != nil {
			logger.Error("config reload failed, keeping previous graph", zap.Error(err))
			return
		}
		records, err := watchFlags.loadRecords(ctx)
		if err != nil {
			logger.Error("records reload failed, keeping previous graph", zap.Error(err))
			return
		}

		layout.Store(cfg.Layout)
		a.Reconfigure(similarity.NewEstimator(cfg.EstimatorOptions()...), cfg.ClusterOptions(), cfg.EmbeddingModel)
		// Run logs its own failures and keeps the previous snapshot.
		_, _ = a.Run(ctx, records, cfg.Params())
		watchFlags.writeMetrics(collector)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limiter := rate.NewLimiter(rate.Every(MinRebuildInterval), 1)
		rebuild(gctx)
		for {
			select {
			case <-gctx.Done():
				return nil
			case path := <-w.Changes():
				logger.Info("change detected", zap.String("file", path))
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}
				rebuild(gctx)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case snap := <-updates:
				opts := viz.HTMLOptions{Layout: layout.Load().(string)}
				if watchLayout != "" {
					opts.Layout = watchLayout
				}
				html, err := renderHTML(snap, opts)
				if err != nil {
					return err
				}
				if err := writeHTML(watchOutput, html); err != nil {
					return err
				}
				reportWatchEvent(WatchEvent{
					Output:     watchOutput,
					Generation: snap.Generation,
					Nodes:      len(snap.Nodes),
					Links:      len(snap.Links),
				})
			}
		}
	})

	if err := g.Wait(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

func reportWatchEvent(e WatchEvent) {
	if humanOutput {
		outputHuman("[%s] wrote %s: %d words, %d links\n",
			time.Now().Format(time.TimeOnly), e.Output, e.Nodes, e.Links)
		return
	}
	_ = outputJSONCompact(e)
}
