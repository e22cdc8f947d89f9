package viz

// Palette holds the group colors. Groups beyond its length wrap around.
var Palette = []string{
	"#ff6b6b", "#48dbfb", "#1dd1a1", "#feca57",
	"#54a0ff", "#5f27cd", "#ff9ff3", "#00d2d3",
}

// GroupColor returns the palette color for a cluster group.
func GroupColor(group int) string {
	if group < 0 {
		group = -group
	}
	return Palette[group%len(Palette)]
}

// NodeSize maps a word's activity time to a node radius tier.
func NodeSize(time float64) int {
	switch {
	case time >= 10:
		return 18
	case time >= 5:
		return 14
	case time >= 1:
		return 10
	default:
		return 6
	}
}

// LinkWidth scales a similarity value to a line width of at least 1.
func LinkWidth(value float64) float64 {
	return max(1, value*3)
}

// ThresholdLabel names the strength band of a similarity threshold.
func ThresholdLabel(threshold float64) string {
	switch {
	case threshold <= 0.2:
		return "all"
	case threshold <= 0.4:
		return "loose"
	case threshold <= 0.6:
		return "moderate"
	case threshold <= 0.8:
		return "strong"
	default:
		return "strongest"
	}
}
