// Package viz renders word graph snapshots as Cytoscape.js pages.
package viz

import (
	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/word"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Title     string  `json:"title"`
	Threshold float64 `json:"threshold"`
	Nodes     []Node  `json:"nodes"`
	Edges     []Edge  `json:"edges"`
}

// Node is a word as drawn on the page.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Tooltip fields
	Time      float64 `json:"time"`
	Period    string  `json:"period"`
	Frequency float64 `json:"frequency"`

	// Styling
	Group int    `json:"group"`
	Color string `json:"color"`
	Size  int    `json:"size"`

	ConnectionCount int `json:"connectionCount"`
}

// Edge is a similarity link as drawn on the page.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
	Width  float64 `json:"width"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// FromSnapshot converts a snapshot into drawable nodes and edges.
func FromSnapshot(s *graph.Snapshot) *GraphData {
	if s == nil {
		return &GraphData{}
	}

	counts := graph.ConnectionCounts(s.Nodes, s.Links)
	g := &GraphData{
		Title:     "Word Graph",
		Threshold: s.Params.Threshold,
		Nodes:     make([]Node, 0, len(s.Nodes)),
		Edges:     make([]Edge, 0, len(s.Links)),
	}
	if s.Params.Period != "" && s.Params.Period != word.AllPeriods {
		g.Title = "Word Graph: " + s.Params.Period
	}

	for i, n := range s.Nodes {
		g.Nodes = append(g.Nodes, Node{
			ID:              n.Word,
			Label:           n.Word,
			Time:            n.Time,
			Period:          n.Period,
			Frequency:       n.Frequency,
			Group:           n.Group,
			Color:           GroupColor(n.Group),
			Size:            NodeSize(n.Time),
			ConnectionCount: counts[i],
		})
	}
	for _, e := range s.Links {
		g.Edges = append(g.Edges, Edge{
			Source: e.Source,
			Target: e.Target,
			Value:  e.Value,
			Width:  LinkWidth(e.Value),
		})
	}
	return g
}
