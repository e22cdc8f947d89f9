// Package metrics collects Prometheus metrics for graph pipeline runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusStale = "stale"
)

// Collector holds the pipeline metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Nodes       prometheus.Gauge
	Links       prometheus.Gauge
	Clusters    prometheus.Gauge
}

// NewCollector creates a collector with metrics under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of graph pipeline runs by outcome",
		},
		[]string{"status"},
	)

	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Graph pipeline run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	nodes := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_nodes",
		Help:      "Number of nodes in the current snapshot",
	})

	links := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_links",
		Help:      "Number of links in the current snapshot",
	})

	clusters := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_clusters",
		Help:      "Number of non-empty clusters in the current snapshot",
	})

	registry.MustRegister(runs, runDuration, nodes, links, clusters)

	return &Collector{
		registry:    registry,
		Runs:        runs,
		RunDuration: runDuration,
		Nodes:       nodes,
		Links:       links,
		Clusters:    clusters,
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(status string, elapsed time.Duration) {
	c.Runs.WithLabelValues(status).Inc()
	c.RunDuration.Observe(elapsed.Seconds())
}

// ObserveSnapshot records the size of a newly published snapshot.
func (c *Collector) ObserveSnapshot(nodes, links, clusters int) {
	c.Nodes.Set(float64(nodes))
	c.Links.Set(float64(links))
	c.Clusters.Set(float64(clusters))
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
