package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/wordgraph/internal/graph"
)

func testSnapshot() *graph.Snapshot {
	params := graph.DefaultParams()
	return &graph.Snapshot{
		ID:     "snap-1",
		Params: params,
		Nodes: []graph.Node{
			{Word: "cat", Time: 2, Period: "p1", Frequency: 3, Group: 0},
			{Word: "car", Time: 11, Period: "p1", Frequency: 1, Group: 1},
			{Word: "dog", Time: 0.5, Period: "p2", Frequency: 8, Group: 9},
		},
		Links: []graph.Edge{
			{Source: "cat", Target: "car", Value: 0.9},
			{Source: "cat", Target: "dog", Value: 0.2},
		},
	}
}

func TestFromSnapshot(t *testing.T) {
	g := FromSnapshot(testSnapshot())

	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)
	assert.Equal(t, "Word Graph", g.Title)
	assert.Equal(t, 0.5, g.Threshold)

	cat := g.Nodes[0]
	assert.Equal(t, "cat", cat.ID)
	assert.Equal(t, "cat", cat.Label)
	assert.Equal(t, Palette[0], cat.Color)
	assert.Equal(t, 10, cat.Size)
	assert.Equal(t, 2, cat.ConnectionCount)

	assert.Equal(t, 18, g.Nodes[1].Size)
	assert.Equal(t, Palette[1], g.Nodes[2].Color, "group 9 wraps around the palette")
	assert.Equal(t, 6, g.Nodes[2].Size)

	assert.InDelta(t, 2.7, g.Edges[0].Width, 1e-9)
	assert.Equal(t, 1.0, g.Edges[1].Width)
}

func TestFromSnapshot_PeriodTitle(t *testing.T) {
	s := testSnapshot()
	s.Params.Period = "2024-q2"
	assert.Equal(t, "Word Graph: 2024-q2", FromSnapshot(s).Title)
}

func TestFromSnapshot_Nil(t *testing.T) {
	g := FromSnapshot(nil)
	assert.True(t, g.IsEmpty())
}

func TestNodeSize(t *testing.T) {
	tests := []struct {
		time float64
		want int
	}{
		{0, 6},
		{0.99, 6},
		{1, 10},
		{4.5, 10},
		{5, 14},
		{9.99, 14},
		{10, 18},
		{12, 18},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NodeSize(tt.time), "time %v", tt.time)
	}
}

func TestThresholdLabel(t *testing.T) {
	tests := []struct {
		threshold float64
		want      string
	}{
		{0, "all"},
		{0.2, "all"},
		{0.3, "loose"},
		{0.4, "loose"},
		{0.5, "moderate"},
		{0.6, "moderate"},
		{0.8, "strong"},
		{0.81, "strongest"},
		{1, "strongest"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThresholdLabel(tt.threshold), "threshold %v", tt.threshold)
	}
}

func TestGroupColor(t *testing.T) {
	assert.Equal(t, Palette[0], GroupColor(0))
	assert.Equal(t, Palette[7], GroupColor(7))
	assert.Equal(t, Palette[0], GroupColor(8))
	assert.Equal(t, Palette[3], GroupColor(-3))
}

func TestLinkWidth(t *testing.T) {
	assert.Equal(t, 1.0, LinkWidth(0))
	assert.Equal(t, 1.0, LinkWidth(0.3))
	assert.Equal(t, 3.0, LinkWidth(1))
}

func TestToCytoscapeJSON(t *testing.T) {
	g := FromSnapshot(testSnapshot())
	out, err := g.ToCytoscapeJSON()
	require.NoError(t, err)

	var elements CytoscapeElements
	require.NoError(t, json.Unmarshal([]byte(out), &elements))
	require.Len(t, elements.Nodes, 3)
	require.Len(t, elements.Edges, 2)

	assert.Equal(t, "cat", elements.Nodes[0].Data.ID)
	assert.Equal(t, "cat-car-0", elements.Edges[0].Data.ID)
	assert.Equal(t, "cat-dog-1", elements.Edges[1].Data.ID)
	assert.Equal(t, 0.9, elements.Edges[0].Data.Value)
}

func TestGenerateHTML(t *testing.T) {
	g := FromSnapshot(testSnapshot())

	tests := []struct {
		name        string
		opts        HTMLOptions
		wantLayout  string
		wantContain []string
	}{
		{
			name:        "default force layout uses cose",
			opts:        DefaultOptions(),
			wantLayout:  `const layout = "cose"`,
			wantContain: []string{CDNScript, "Nodes: 3 / Links: 2", "Threshold: 0.50 (moderate)"},
		},
		{
			name:        "circle layout",
			opts:        HTMLOptions{Layout: "circle"},
			wantLayout:  `const layout = "circle"`,
			wantContain: []string{CDNScript},
		},
		{
			name:        "offline grid",
			opts:        HTMLOptions{Layout: "grid", Offline: true},
			wantLayout:  `const layout = "grid"`,
			wantContain: []string{`src="cytoscape.min.js"`},
		},
		{
			name:        "dark theme",
			opts:        HTMLOptions{Dark: true},
			wantLayout:  `const layout = "cose"`,
			wantContain: []string{"#1a1a1a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := GenerateHTML(g, tt.opts)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
			assert.Contains(t, html, tt.wantLayout)
			for _, s := range tt.wantContain {
				assert.Contains(t, html, s)
			}
			assert.Contains(t, html, `"id":"cat"`)
		})
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	html, err := GenerateHTML(&GraphData{Title: "Word Graph"}, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, html, "No words match")
	assert.NotContains(t, html, "cytoscape(")
}

func TestGenerateHTML_Errors(t *testing.T) {
	_, err := GenerateHTML(nil, DefaultOptions())
	assert.Error(t, err)

	_, err = GenerateHTML(FromSnapshot(testSnapshot()), HTMLOptions{Layout: "spiral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layout")
}

func TestGenerateHTML_EscapesWords(t *testing.T) {
	s := testSnapshot()
	s.Nodes[0].Word = "</script><b>"
	s.Links[0].Source = "</script><b>"
	s.Links[1].Source = "</script><b>"

	html, err := GenerateHTML(FromSnapshot(s), DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, html, "</script><b>")
}
