// Package pipeline assembles word graph snapshots from records and publishes
// them to consumers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matsen/wordgraph/internal/cluster"
	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/metrics"
	"github.com/matsen/wordgraph/internal/similarity"
	"github.com/matsen/wordgraph/internal/word"
)

// ErrStale is returned by Run when a newer run started before this one
// finished. The stale result is discarded.
var ErrStale = errors.New("superseded by a newer run")

// Assembler runs the filter, similarity and clustering stages and keeps the
// most recent good snapshot. It is safe for concurrent use.
type Assembler struct {
	logger    *zap.Logger
	estimator *similarity.Estimator
	clusters  cluster.Options
	metrics   *metrics.Collector
	model     string
	now       func() time.Time

	// buildMu serializes use of the random sources.
	buildMu sync.Mutex

	started atomic.Uint64

	mu          sync.Mutex
	current     *graph.Snapshot
	inFlight    int
	subscribers []chan *graph.Snapshot
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithEstimator sets the similarity estimator.
func WithEstimator(e *similarity.Estimator) Option {
	return func(a *Assembler) {
		a.estimator = e
	}
}

// WithClusterOptions sets the k-means options.
func WithClusterOptions(opts cluster.Options) Option {
	return func(a *Assembler) {
		a.clusters = opts
	}
}

// WithMetrics records run metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *Assembler) {
		a.metrics = c
	}
}

// WithEmbeddingModel records the configured embedding model name on each
// snapshot. The name has no effect on scoring.
func WithEmbeddingModel(name string) Option {
	return func(a *Assembler) {
		a.model = name
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// New creates an Assembler. A nil logger disables logging.
func New(logger *zap.Logger, opts ...Option) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Assembler{
		logger:   logger,
		clusters: cluster.DefaultOptions(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.estimator == nil {
		a.estimator = similarity.NewEstimator()
	}
	return a
}

// Reconfigure replaces the estimator, cluster options and model name used
// by later builds. A build already past the filter stage finishes with the
// old settings. A nil estimator keeps the current one.
func (a *Assembler) Reconfigure(e *similarity.Estimator, clusters cluster.Options, model string) {
	a.buildMu.Lock()
	defer a.buildMu.Unlock()
	if e != nil {
		a.estimator = e
	}
	a.clusters = clusters
	a.model = model
}

// Build runs the pipeline once and returns the snapshot without publishing
// it. Records are validated first; any failure, including a panic inside a
// stage, is returned as an error.
func (a *Assembler) Build(ctx context.Context, records []word.Record, params graph.Params) (snap *graph.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	if err := word.ValidateAll(records); err != nil {
		return nil, fmt.Errorf("validating records: %w", err)
	}

	nodes := graph.FilterRecords(records, params)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	words := make([]string, len(nodes))
	for i, n := range nodes {
		words[i] = n.Word
	}
	matrix := a.estimator.Compute(words)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links, err := graph.BuildEdges(nodes, matrix, params.Threshold)
	if err != nil {
		return nil, fmt.Errorf("building edges: %w", err)
	}

	res := cluster.AssignWithStats(nodes, links, a.clusters)
	a.logger.Debug("clustered nodes",
		zap.Int("nodes", len(res.Nodes)),
		zap.Int("iterations", res.Iterations),
		zap.Bool("converged", res.Converged),
	)

	k := a.clusters.K
	if k <= 0 {
		k = cluster.DefaultK
	}

	return &graph.Snapshot{
		ID:        uuid.NewString(),
		Params:    params,
		Clusters:  k,
		Model:     a.model,
		CreatedAt: a.now().UTC(),
		Nodes:     res.Nodes,
		Links:     links,
	}, nil
}

// Run builds a snapshot and publishes it if no newer run has started in the
// meantime. On error the previous snapshot stays current. A run overtaken by
// a newer one returns ErrStale.
func (a *Assembler) Run(ctx context.Context, records []word.Record, params graph.Params) (*graph.Snapshot, error) {
	token := a.started.Add(1)
	start := a.now()

	a.mu.Lock()
	a.inFlight++
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.inFlight--
		a.mu.Unlock()
	}()

	snap, err := a.Build(ctx, records, params)
	if err != nil {
		a.observe(metrics.StatusError, start)
		a.logger.Error("graph pipeline failed, keeping previous snapshot",
			zap.Uint64("run", token),
			zap.Error(err),
		)
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if latest := a.started.Load(); token != latest {
		a.observe(metrics.StatusStale, start)
		a.logger.Info("discarding stale snapshot",
			zap.Uint64("run", token),
			zap.Uint64("latest", latest),
		)
		return nil, ErrStale
	}

	snap.Generation = token
	a.current = snap
	a.observe(metrics.StatusOK, start)
	if a.metrics != nil {
		a.metrics.ObserveSnapshot(len(snap.Nodes), len(snap.Links), len(snap.GroupSizes()))
	}
	for _, ch := range a.subscribers {
		// Keep only the newest snapshot in each buffer.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}

	a.logger.Debug("published snapshot",
		zap.Uint64("run", token),
		zap.String("id", snap.ID),
		zap.Int("nodes", len(snap.Nodes)),
		zap.Int("links", len(snap.Links)),
	)
	return snap, nil
}

// Current returns the last published snapshot, or nil before the first
// successful run.
func (a *Assembler) Current() *graph.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Loading reports whether any run is in flight.
func (a *Assembler) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight > 0
}

// Subscribe returns a channel that receives each published snapshot. The
// channel holds at most one pending snapshot; a slow reader only sees the
// newest one.
func (a *Assembler) Subscribe() <-chan *graph.Snapshot {
	ch := make(chan *graph.Snapshot, 1)
	a.mu.Lock()
	a.subscribers = append(a.subscribers, ch)
	a.mu.Unlock()
	return ch
}

// BuildPeriods builds one unpublished snapshot per period with the other
// parameters unchanged.
func (a *Assembler) BuildPeriods(ctx context.Context, records []word.Record, params graph.Params, periods []string) ([]*graph.Snapshot, error) {
	snaps := make([]*graph.Snapshot, 0, len(periods))
	for _, period := range periods {
		p := params
		p.Period = period
		snap, err := a.Build(ctx, records, p)
		if err != nil {
			return nil, fmt.Errorf("building period %q: %w", period, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (a *Assembler) observe(status string, start time.Time) {
	if a.metrics != nil {
		a.metrics.ObserveRun(status, a.now().Sub(start))
	}
}
