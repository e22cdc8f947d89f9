package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// CDNScript is the default Cytoscape.js location.
const CDNScript = "https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"

// LocalScript is the file name referenced in offline mode. It must sit next
// to the generated page.
const LocalScript = "cytoscape.min.js"

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout  string // "force", "circle", or "grid"
	Offline bool   // Load Cytoscape.js from LocalScript instead of the CDN
	Dark    bool
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout:  "force",
		Offline: false,
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML page for the graph.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(graph), nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:          graph.Title,
		ScriptSrc:      scriptSrc(opts.Offline),
		GraphJSON:      template.JS(graphJSON),
		Layout:         layoutToCytoscape(opts.Layout),
		NodeCount:      len(graph.Nodes),
		EdgeCount:      len(graph.Edges),
		Threshold:      fmt.Sprintf("%.2f", graph.Threshold),
		ThresholdLabel: ThresholdLabel(graph.Threshold),
		Background:     "#ffffff",
		Foreground:     "#333",
		LinkColor:      "rgba(0,0,0,0.15)",
	}
	if opts.Dark {
		data.Background = "#1a1a1a"
		data.Foreground = "#eee"
		data.LinkColor = "rgba(255,255,255,0.15)"
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

type templateData struct {
	Title          string
	ScriptSrc      string
	GraphJSON      template.JS
	Layout         string
	NodeCount      int
	EdgeCount      int
	Threshold      string
	ThresholdLabel string
	Background     string
	Foreground     string
	LinkColor      string
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

func scriptSrc(offline bool) string {
	if offline {
		return LocalScript
	}
	return CDNScript
}

func generateEmptyHTML(graph *GraphData) string {
	var buf bytes.Buffer
	// The empty template has no fallible fields.
	_ = emptyTemplate.Execute(&buf, graph)
	return buf.String()
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No words match</h2>
    <p>No records fall inside the selected time range and period.</p>
    <p>Widen the range with <code>--min-time</code> and <code>--max-time</code>, or try <code>--period all</code>.</p>
  </div>
</body>
</html>`))

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="{{.ScriptSrc}}"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: {{.Background}};
      color: {{.Foreground}};
    }
    #cy {
      width: 100%;
      height: 100vh;
    }
    #info {
      position: absolute;
      top: 8px;
      left: 8px;
      z-index: 10;
      padding: 6px 10px;
      border: 1px solid #ccc;
      border-radius: 4px;
      font-size: 12px;
      background: {{.Background}};
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      color: #333;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="info">
    <div><strong>{{.Title}}</strong></div>
    <div>Nodes: {{.NodeCount}} / Links: {{.EdgeCount}}</div>
    <div>Threshold: {{.Threshold}} ({{.ThresholdLabel}})</div>
  </div>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'label': 'data(label)',
              'color': '{{.Foreground}}',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'mapData(size, 6, 18, 12, 36)',
              'height': 'mapData(size, 6, 18, 12, 36)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '{{.LinkColor}}',
              'curve-style': 'straight',
              'width': 'data(width)'
            }
          },
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="label">' + escapeHtml(data.label) + '</div>';
        html += '<div class="detail">Time: ' + data.time + 'h</div>';
        html += '<div class="detail">Period: ' + escapeHtml(data.period) + '</div>';
        html += '<div class="detail">Frequency: ' + data.frequency + '</div>';
        html += '<div class="detail">Group: ' + data.group + '</div>';
        html += '<div class="detail">Connections: ' + data.connectionCount + '</div>';
        return html;
      }

      function getEdgeTooltip(edge) {
        const data = edge.data();
        let html = '<div class="label">' + escapeHtml(data.source) + ' - ' + escapeHtml(data.target) + '</div>';
        html += '<div class="detail">Similarity: ' + data.value.toFixed(3) + '</div>';
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });
      cy.on('mouseout', 'node', hideTooltip);
      cy.on('mouseover', 'edge', function(evt) {
        showTooltip(evt, getEdgeTooltip(evt.target));
      });
      cy.on('mouseout', 'edge', hideTooltip);

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('highlighted dimmed');
        const neighborhood = node.neighborhood().add(node);
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
