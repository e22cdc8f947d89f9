// Package cluster groups graph nodes with k-means over activity time and
// connection count.
package cluster

import (
	"math"
	"math/rand/v2"

	"github.com/matsen/wordgraph/internal/graph"
)

const (
	// DefaultK is the default number of clusters.
	DefaultK = 5

	// DefaultMaxIterations bounds the refinement loop.
	DefaultMaxIterations = 10

	// MaxActivityHours normalizes the time axis of the distance.
	MaxActivityHours = 12.0
)

// Options configures Assign.
type Options struct {
	K             int
	MaxIterations int

	// Rand picks the initial centroids. Nil uses a randomly seeded source.
	Rand *rand.Rand
}

// DefaultOptions returns k=5, 10 iterations and an unseeded source.
func DefaultOptions() Options {
	return Options{K: DefaultK, MaxIterations: DefaultMaxIterations}
}

func (o Options) withDefaults() Options {
	if o.K <= 0 {
		o.K = DefaultK
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// Result reports the outcome of a clustering run.
type Result struct {
	Nodes []graph.Node

	// Iterations is the number of assignment passes performed.
	Iterations int

	// Converged is true when a pass made no reassignment.
	Converged bool
}

// feature is a point in the (time, connections) plane.
type feature struct {
	time        float64
	connections float64
}

// Assign returns copies of nodes with Group set to a cluster id in [0, K).
// Node order is preserved and the input slice is not modified.
func Assign(nodes []graph.Node, edges []graph.Edge, opts Options) []graph.Node {
	return AssignWithStats(nodes, edges, opts).Nodes
}

// AssignWithStats is Assign with iteration statistics.
//
// With at most K nodes each node gets its own group, numbered by position,
// and no iteration runs. Otherwise K distinct nodes seed the centroids and
// assignment and update steps alternate until nothing moves or
// MaxIterations is reached. Ties go to the lowest centroid index and empty
// clusters keep their previous centroid.
func AssignWithStats(nodes []graph.Node, edges []graph.Edge, opts Options) Result {
	opts = opts.withDefaults()
	k := opts.K

	out := make([]graph.Node, len(nodes))
	copy(out, nodes)

	if len(out) == 0 {
		return Result{Nodes: out, Converged: true}
	}
	if len(out) <= k {
		for i := range out {
			out[i].Group = i
		}
		return Result{Nodes: out, Converged: true}
	}

	features, maxConn := extractFeatures(out, edges)
	connScale := math.Max(1, maxConn)
	centroids := initialCentroids(features, k, opts.Rand)

	assignments := make([]int, len(out))
	result := Result{}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		result.Iterations++

		changed := false
		for i, f := range features {
			best := nearest(f, centroids, connScale)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed {
			result.Converged = true
			break
		}

		updateCentroids(centroids, features, assignments)
	}

	for i := range out {
		out[i].Group = assignments[i]
	}
	result.Nodes = out
	return result
}

// extractFeatures builds (time, degree) per node and returns the largest degree.
func extractFeatures(nodes []graph.Node, edges []graph.Edge) ([]feature, float64) {
	counts := graph.ConnectionCounts(nodes, edges)

	features := make([]feature, len(nodes))
	maxConn := 0.0
	for i, n := range nodes {
		c := float64(counts[i])
		features[i] = feature{time: n.Time, connections: c}
		if c > maxConn {
			maxConn = c
		}
	}
	return features, maxConn
}

// initialCentroids seeds k centroids from distinct nodes chosen uniformly
// without replacement. Requires len(features) > k.
func initialCentroids(features []feature, k int, rng *rand.Rand) []feature {
	idx := make([]int, len(features))
	for i := range idx {
		idx[i] = i
	}

	// Partial Fisher-Yates: the first k slots end up a uniform sample.
	centroids := make([]feature, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		centroids[i] = features[idx[i]]
	}
	return centroids
}

// nearest returns the index of the closest centroid.
func nearest(f feature, centroids []feature, connScale float64) int {
	best := 0
	minDist := math.Inf(1)
	for j, c := range centroids {
		if d := distance(f, c, connScale); d < minDist {
			minDist = d
			best = j
		}
	}
	return best
}

// distance is the Euclidean distance after scaling time by MaxActivityHours
// and connections by connScale.
func distance(a, b feature, connScale float64) float64 {
	timeDist := math.Abs(a.time-b.time) / MaxActivityHours
	connDist := math.Abs(a.connections-b.connections) / connScale
	return math.Sqrt(timeDist*timeDist + connDist*connDist)
}

// updateCentroids moves each centroid to the mean of its members.
func updateCentroids(centroids, features []feature, assignments []int) {
	sums := make([]feature, len(centroids))
	counts := make([]int, len(centroids))

	for i, f := range features {
		c := assignments[i]
		sums[c].time += f.time
		sums[c].connections += f.connections
		counts[c]++
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		centroids[c] = feature{
			time:        sums[c].time / float64(counts[c]),
			connections: sums[c].connections / float64(counts[c]),
		}
	}
}
