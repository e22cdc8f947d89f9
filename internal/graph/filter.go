package graph

import (
	"errors"
	"fmt"

	"github.com/matsen/wordgraph/internal/word"
)

// ErrMatrixSize is returned when a similarity matrix does not match the node list.
var ErrMatrixSize = errors.New("similarity matrix does not match node count")

// FilterRecords keeps records with MinTime <= time <= MaxTime whose period
// matches p.Period (or any period when it is "all"). Order is preserved and
// every node starts in group 0. MinTime > MaxTime selects nothing.
func FilterRecords(records []word.Record, p Params) []Node {
	nodes := make([]Node, 0, len(records))
	for _, r := range records {
		if r.Time < p.MinTime || r.Time > p.MaxTime {
			continue
		}
		if p.Period != word.AllPeriods && r.Period != p.Period {
			continue
		}
		nodes = append(nodes, NewNode(r))
	}
	return nodes
}

// BuildEdges creates one edge per unordered pair i < j whose similarity
// matrix[i][j] is at least threshold. Only the upper triangle is read.
func BuildEdges(nodes []Node, matrix [][]float64, threshold float64) ([]Edge, error) {
	if len(matrix) != len(nodes) {
		return nil, fmt.Errorf("%w: %d rows for %d nodes", ErrMatrixSize, len(matrix), len(nodes))
	}
	for i, row := range matrix {
		if len(row) != len(nodes) {
			return nil, fmt.Errorf("%w: row %d has %d columns for %d nodes", ErrMatrixSize, i, len(row), len(nodes))
		}
	}

	edges := make([]Edge, 0)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if sim := matrix[i][j]; sim >= threshold {
				edges = append(edges, Edge{
					Source: nodes[i].Word,
					Target: nodes[j].Word,
					Value:  sim,
				})
			}
		}
	}
	return edges, nil
}

// ConnectionCounts returns the degree of each node, indexed like nodes.
// Both endpoints of an edge are counted; endpoints not in nodes are ignored.
func ConnectionCounts(nodes []Node, edges []Edge) []int {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.Word] = i
	}

	counts := make([]int, len(nodes))
	for _, e := range edges {
		if i, ok := index[e.Source]; ok {
			counts[i]++
		}
		if i, ok := index[e.Target]; ok {
			counts[i]++
		}
	}
	return counts
}
