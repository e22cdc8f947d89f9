// Package graph holds the word graph data types and the record and edge
// filters that build them.
package graph

import (
	"time"

	"github.com/matsen/wordgraph/internal/word"
)

// Node is a word in the graph.
type Node struct {
	Word      string  `json:"id"`
	Frequency float64 `json:"frequency"`
	Time      float64 `json:"time"`
	Period    string  `json:"period"`

	// Group is the cluster id assigned by the cluster package.
	Group int `json:"group"`
}

// NewNode creates an ungrouped node from a record.
func NewNode(r word.Record) Node {
	return Node{
		Word:      r.Word,
		Frequency: r.Frequency,
		Time:      r.Time,
		Period:    r.Period,
	}
}

// Edge links two words whose similarity met the threshold.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Params are the user-adjustable filter settings for one pipeline run.
type Params struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	MinTime   float64 `json:"min_time" yaml:"min_time"`
	MaxTime   float64 `json:"max_time" yaml:"max_time"`
	Period    string  `json:"period" yaml:"period"`
}

// Default parameter values.
const (
	DefaultThreshold = 0.5
	DefaultMinTime   = 0.0
	DefaultMaxTime   = 12.0
)

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Threshold: DefaultThreshold,
		MinTime:   DefaultMinTime,
		MaxTime:   DefaultMaxTime,
		Period:    word.AllPeriods,
	}
}

// Snapshot is one complete graph produced by a pipeline run. A published
// snapshot is never modified.
type Snapshot struct {
	ID         string    `json:"id"`
	Generation uint64    `json:"generation"`
	Params     Params    `json:"params"`
	Clusters   int       `json:"clusters"`
	Model      string    `json:"embedding_model,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// IsEmpty returns true if the graph has no nodes.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Nodes) == 0
}

// GroupSizes returns the number of nodes in each group.
func (s *Snapshot) GroupSizes() map[int]int {
	sizes := make(map[int]int)
	for _, n := range s.Nodes {
		sizes[n.Group]++
	}
	return sizes
}
