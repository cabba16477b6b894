// Package export serializes a business graph to its export formats.
//
// All encoders share the same node and edge arrays and differ only in which
// optional fields they include and how they shape the output.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/seergraph/seer-go/internal/bizgraph"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON      Format = "json"
	FormatCytoscape Format = "cytoscape"
	FormatD3        Format = "d3"

	// Declared but not implemented; Export returns ErrUnsupportedFormat
	// for these.
	FormatGraphML Format = "graphml"
	FormatGEXF    Format = "gexf"
	FormatVis     Format = "vis"
)

// ErrUnsupportedFormat is returned for declared formats without an encoder.
var ErrUnsupportedFormat = fmt.Errorf("export format not implemented")

// Options selects the format and which optional fields to include.
type Options struct {
	Format Format

	// IncludeMetadata gates the graph-level metadata block. When false it
	// also suppresses per-node data, position, and metrics regardless of
	// the individual flags.
	IncludeMetadata bool

	IncludeData      bool
	IncludePositions bool
	IncludeMetrics   bool
	IncludeClusters  bool
}

// DefaultOptions includes everything in JSON format.
func DefaultOptions() Options {
	return Options{
		Format:           FormatJSON,
		IncludeMetadata:  true,
		IncludeData:      true,
		IncludePositions: true,
		IncludeMetrics:   true,
		IncludeClusters:  true,
	}
}

func (o Options) includeData() bool      { return o.IncludeData && o.IncludeMetadata }
func (o Options) includePositions() bool { return o.IncludePositions && o.IncludeMetadata }
func (o Options) includeMetrics() bool   { return o.IncludeMetrics && o.IncludeMetadata }

// Export serializes the graph in the requested format.
func Export(g *bizgraph.Graph, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON:
		return exportJSON(g, opts)
	case FormatCytoscape:
		return exportCytoscape(g, opts)
	case FormatD3:
		return exportD3(g, opts)
	case FormatGraphML, FormatGEXF, FormatVis:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	default:
		return nil, fmt.Errorf("unknown export format: %s", opts.Format)
	}
}

// exportJSON emits the canonical node/edge shape with optional fields
// stripped according to the include flags.
func exportJSON(g *bizgraph.Graph, opts Options) ([]byte, error) {
	nodes := make([]map[string]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		entry := map[string]any{
			"id":    n.ID,
			"type":  string(n.Type),
			"label": n.Label,
		}
		if n.Description != "" {
			entry["description"] = n.Description
		}
		if len(n.Tags) > 0 {
			entry["tags"] = n.Tags
		}
		if opts.includeData() && len(n.Data) > 0 {
			entry["data"] = n.Data
		}
		if opts.includePositions() && n.Position != nil {
			entry["position"] = n.Position
		}
		if opts.includeMetrics() && n.Metrics != nil {
			entry["metrics"] = n.Metrics
		}
		nodes = append(nodes, entry)
	}

	edges := make([]map[string]any, 0, len(g.Edges))
	for _, e := range g.Edges {
		entry := map[string]any{
			"id":     e.ID,
			"source": e.Source,
			"target": e.Target,
			"type":   string(e.Type),
		}
		if e.Label != "" {
			entry["label"] = e.Label
		}
		if e.Weight != 0 {
			entry["weight"] = e.Weight
		}
		edges = append(edges, entry)
	}

	doc := map[string]any{
		"nodes": nodes,
		"edges": edges,
	}
	if opts.IncludeClusters && len(g.Clusters) > 0 {
		doc["clusters"] = g.Clusters
	}
	if opts.IncludeMetadata {
		doc["metadata"] = g.Metadata
	}

	return json.MarshalIndent(doc, "", "  ")
}

// exportCytoscape emits one interleaved elements array: node elements first,
// then edge elements, each classed by its type.
func exportCytoscape(g *bizgraph.Graph, opts Options) ([]byte, error) {
	elements := make([]map[string]any, 0, len(g.Nodes)+len(g.Edges))

	for _, n := range g.Nodes {
		data := map[string]any{
			"id":    n.ID,
			"label": n.Label,
			"type":  string(n.Type),
		}
		if opts.includeData() {
			for k, v := range n.Data {
				data[k] = v
			}
		}
		if opts.includeMetrics() && n.Metrics != nil {
			data["connectivity"] = n.Metrics.Connectivity
			data["importance"] = n.Metrics.Importance
		}

		element := map[string]any{
			"data":    data,
			"classes": string(n.Type),
		}
		if opts.includePositions() && n.Position != nil {
			element["position"] = n.Position
		}
		elements = append(elements, element)
	}

	for _, e := range g.Edges {
		elements = append(elements, map[string]any{
			"data": map[string]any{
				"id":     e.ID,
				"source": e.Source,
				"target": e.Target,
				"type":   string(e.Type),
			},
			"classes": string(e.Type),
		})
	}

	return json.MarshalIndent(map[string]any{"elements": elements}, "", "  ")
}

// exportD3 emits the node-link shape used by force-directed renderers.
func exportD3(g *bizgraph.Graph, opts Options) ([]byte, error) {
	nodes := make([]map[string]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		entry := map[string]any{
			"id":    n.ID,
			"label": n.Label,
			"group": string(n.Type),
		}
		if n.Metrics != nil {
			entry["value"] = n.Metrics.Importance
		}
		if opts.includePositions() && n.Position != nil {
			entry["x"] = n.Position.X
			entry["y"] = n.Position.Y
		}
		nodes = append(nodes, entry)
	}

	links := make([]map[string]any, 0, len(g.Edges))
	for _, e := range g.Edges {
		value := e.Weight
		if value == 0 {
			value = 1
		}
		links = append(links, map[string]any{
			"source": e.Source,
			"target": e.Target,
			"value":  value,
			"type":   string(e.Type),
		})
	}

	return json.MarshalIndent(map[string]any{
		"nodes": nodes,
		"links": links,
	}, "", "  ")
}
