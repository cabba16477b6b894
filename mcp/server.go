// Package mcp provides the MCP (Model Context Protocol) server for Seer.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seergraph/seer-go/internal/bizgraph"
	"github.com/seergraph/seer-go/internal/export"
	"github.com/seergraph/seer-go/internal/storage"
)

// Server represents the MCP server.
type Server struct {
	store  storage.SnapshotStore
	server *mcp.Server
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server over a snapshot store.
func NewServer(store storage.SnapshotStore) *Server {
	s := &Server{
		store: store,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "seer-go",
		Version: "0.1.0",
	}, nil)

	return s
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "seer_stats",
			Description: "Get statistics for the synthesized business graph: node and edge counts, density, connectivity.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
		{
			Name:        "seer_feature",
			Description: "Look up a business feature by name or ID: value, complexity, owned components, and feature relationships.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name": {Type: "string", Description: "Feature name or ID"},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        "seer_journeys",
			Description: "List traced user journeys, optionally filtered by persona.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"persona": {Type: "string", Description: "Persona to filter by"},
				},
			},
		},
		{
			Name:        "seer_node",
			Description: "Get a 360-degree view of a graph node: data, metrics, and all incoming and outgoing edges.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id": {Type: "string", Description: "Node ID (e.g. feature-cap-1, journey-0, component-TodoList)"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "seer_export",
			Description: "Export the full business graph in a presentation format (json, cytoscape, or d3).",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"format": {Type: "string", Description: "Export format: json, cytoscape, or d3"},
				},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "seer://overview",
			Name:        "Business Graph Overview",
			Description: "High-level statistics about the synthesized business graph",
			MimeType:    "text/plain",
		},
		{
			URI:         "seer://legend",
			Name:        "Graph Legend",
			Description: "Node types with their presentation colors and icons",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	g, err := s.loadGraph(ctx)
	if err != nil {
		return "", err
	}

	switch name {
	case "seer_stats":
		meta, _ := s.store.LoadMeta(ctx)
		return handleStats(g, meta), nil
	case "seer_feature":
		featureName, _ := args["name"].(string)
		return handleFeature(g, featureName)
	case "seer_journeys":
		persona, _ := args["persona"].(string)
		return handleJourneys(g, persona), nil
	case "seer_node":
		id, _ := args["id"].(string)
		return handleNode(g, id)
	case "seer_export":
		format, _ := args["format"].(string)
		if format == "" {
			format = "json"
		}
		return handleExport(g, format)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "seer://overview":
		g, err := s.loadGraph(ctx)
		if err != nil {
			return "", err
		}
		meta, _ := s.store.LoadMeta(ctx)
		return getOverview(g, meta), nil
	case "seer://legend":
		return getLegend(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return fmt.Errorf("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)
	// Note: Do NOT use SetIndent - MCP protocol requires compact JSON (one line per message)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		// Parse JSON-RPC request
		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		resp := s.handleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	case "resources/list":
		return s.handleResourcesList(id)
	case "resources/read":
		return s.handleResourcesRead(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]any{
				"name":    "seer-go",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{
				"tools": map[string]any{
					"listChanged": false,
				},
				"resources": map[string]any{
					"listChanged": false,
				},
			},
		},
	}
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"tools": toolList,
		},
	}
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func (s *Server) handleResourcesList(id any) map[string]any {
	resources := s.ListResources()
	resourceList := make([]map[string]any, len(resources))
	for i, res := range resources {
		resourceList[i] = map[string]any{
			"uri":         res.URI,
			"name":        res.Name,
			"description": res.Description,
			"mimeType":    res.MimeType,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"resources": resourceList,
		},
	}
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	uri, _ := params["uri"].(string)

	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"contents": []map[string]any{
				{
					"uri":      uri,
					"mimeType": "text/plain",
					"text":     content,
				},
			},
		},
	}
}

func (s *Server) loadGraph(ctx context.Context) (*bizgraph.Graph, error) {
	g, err := s.store.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("no snapshot found. Run 'seer synth' first")
	}
	return g, nil
}

// Tool Handlers

func handleStats(g *bizgraph.Graph, meta *storage.Meta) string {
	stats := g.Metadata.Statistics

	var sb strings.Builder
	sb.WriteString("## Business Graph Statistics\n\n")
	sb.WriteString(fmt.Sprintf("**Nodes:** %d\n", stats.NodeCount))
	sb.WriteString(fmt.Sprintf("**Edges:** %d\n", stats.EdgeCount))
	sb.WriteString(fmt.Sprintf("**Density:** %.4f\n", stats.Density))
	sb.WriteString(fmt.Sprintf("**Avg connectivity:** %.2f\n", stats.AvgConnectivity))
	sb.WriteString(fmt.Sprintf("**Isolated nodes:** %d\n", stats.IsolatedNodes))

	if len(stats.NodesByType) > 0 {
		sb.WriteString("\n### Nodes by Type\n\n")
		for _, t := range bizgraph.NodeTypes {
			if n := stats.NodesByType[t]; n > 0 {
				sb.WriteString(fmt.Sprintf("- %s: %d\n", string(t), n))
			}
		}
	}

	if meta != nil {
		sb.WriteString(fmt.Sprintf("\nSynthesized from %s at %s\n",
			meta.FactsPath, meta.SavedAt.Format("2006-01-02 15:04:05 UTC")))
	}

	sb.WriteString("\nNext: Use `seer_feature` or `seer_node` to inspect individual nodes.")

	return sb.String()
}

func handleFeature(g *bizgraph.Graph, name string) (string, error) {
	if name == "" {
		return "No feature name provided", nil
	}

	node := findFeature(g, name)
	if node == nil {
		return fmt.Sprintf("Feature '%s' not found in the business graph", name), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Feature: **%s**\n\n", node.Label))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", node.ID))
	if category, ok := node.Data["category"].(string); ok {
		sb.WriteString(fmt.Sprintf("**Category:** %s\n", category))
	}
	sb.WriteString(fmt.Sprintf("**Business value:** %d\n", dataInt(node, "businessValue")))
	sb.WriteString(fmt.Sprintf("**Complexity:** %d\n", dataInt(node, "technicalComplexity")))
	if node.Metrics != nil {
		sb.WriteString(fmt.Sprintf("**Importance:** %d (connectivity %d)\n",
			node.Metrics.Importance, node.Metrics.Connectivity))
	}

	// Owned components via contains edges
	var components []string
	var related []string
	for _, e := range g.Edges {
		switch {
		case e.Source == node.ID && e.Type == bizgraph.EdgeContains:
			components = append(components, labelOf(g, e.Target))
		case e.Source == node.ID && (e.Type == bizgraph.EdgeDependsOn || e.Type == bizgraph.EdgeComplements):
			related = append(related, fmt.Sprintf("%s %s (weight %.2f)", string(e.Type), labelOf(g, e.Target), e.Weight))
		}
	}

	if len(components) > 0 {
		sb.WriteString(fmt.Sprintf("\n### Components (%d)\n", len(components)))
		for _, c := range components {
			sb.WriteString(fmt.Sprintf("- %s\n", c))
		}
	}

	if len(related) > 0 {
		sb.WriteString(fmt.Sprintf("\n### Relationships (%d)\n", len(related)))
		for _, r := range related {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	sb.WriteString("\nNext: Use `seer_node` on a component for its full edge set.")

	return sb.String(), nil
}

func handleJourneys(g *bizgraph.Graph, persona string) string {
	var sb strings.Builder
	sb.WriteString("## User Journeys\n\n")

	count := 0
	for _, n := range g.Nodes {
		if n.Type != bizgraph.NodeUserJourney {
			continue
		}
		journeyPersona, _ := n.Data["persona"].(string)
		if persona != "" && journeyPersona != persona {
			continue
		}
		count++

		sb.WriteString(fmt.Sprintf("%d. **%s** (%s)\n", count, n.Label, n.ID))
		sb.WriteString(fmt.Sprintf("   Persona: %s, Steps: %d\n", journeyPersona, dataInt(n, "stepCount")))
		if n.Description != "" {
			sb.WriteString(fmt.Sprintf("   Goal: %s\n", n.Description))
		}
		sb.WriteString("\n")
	}

	if count == 0 {
		if persona != "" {
			return fmt.Sprintf("No journeys found for persona '%s'", persona)
		}
		return "No journeys found"
	}

	sb.WriteString("Next: Use `seer_node` on a journey ID for its involved components.")

	return sb.String()
}

func handleNode(g *bizgraph.Graph, id string) (string, error) {
	if id == "" {
		return "No node ID provided", nil
	}

	var node *bizgraph.Node
	for _, n := range g.Nodes {
		if n.ID == id {
			node = n
			break
		}
	}
	if node == nil {
		return fmt.Sprintf("Node '%s' not found in the business graph", id), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Node: **%s** (%s)\n\n", node.Label, string(node.Type)))
	if node.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", node.Description))
	}
	if node.Metrics != nil {
		sb.WriteString(fmt.Sprintf("**Importance:** %d, **Connectivity:** %d\n\n",
			node.Metrics.Importance, node.Metrics.Connectivity))
	}

	if len(node.Data) > 0 {
		sb.WriteString("### Data\n")
		dataJSON, _ := json.MarshalIndent(node.Data, "", "  ")
		sb.WriteString("```json\n")
		sb.Write(dataJSON)
		sb.WriteString("\n```\n\n")
	}

	var incoming, outgoing []string
	for _, e := range g.Edges {
		if e.Source == id {
			outgoing = append(outgoing, fmt.Sprintf("%s → %s", string(e.Type), labelOf(g, e.Target)))
		}
		if e.Target == id {
			incoming = append(incoming, fmt.Sprintf("%s ← %s", string(e.Type), labelOf(g, e.Source)))
		}
	}

	if len(outgoing) > 0 {
		sb.WriteString(fmt.Sprintf("### Outgoing (%d)\n", len(outgoing)))
		for _, e := range outgoing {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}
	if len(incoming) > 0 {
		sb.WriteString(fmt.Sprintf("### Incoming (%d)\n", len(incoming)))
		for _, e := range incoming {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	if len(incoming) == 0 && len(outgoing) == 0 {
		sb.WriteString("No edges. This node is isolated.\n")
	}

	return sb.String(), nil
}

func handleExport(g *bizgraph.Graph, format string) (string, error) {
	opts := export.DefaultOptions()
	opts.Format = export.Format(format)

	data, err := export.Export(g, opts)
	if err != nil {
		return "", fmt.Errorf("exporting as %s: %w", format, err)
	}

	return string(data), nil
}

// Resource Handlers

func getOverview(g *bizgraph.Graph, meta *storage.Meta) string {
	stats := g.Metadata.Statistics

	var sb strings.Builder
	sb.WriteString("# Seer Business Graph Overview\n\n")
	sb.WriteString(fmt.Sprintf("**Nodes:** %d\n", stats.NodeCount))
	sb.WriteString(fmt.Sprintf("**Edges:** %d\n", stats.EdgeCount))
	if meta != nil {
		sb.WriteString(fmt.Sprintf("**Facts:** %s\n", meta.FactsPath))
	}
	sb.WriteString("\n## Node Types\n\n")
	sb.WriteString("- persona: Who uses the product\n")
	sb.WriteString("- user_story: What a persona wants to accomplish\n")
	sb.WriteString("- business_capability: A high-level business capability\n")
	sb.WriteString("- business_feature: A capability-sized slice of the UI\n")
	sb.WriteString("- user_journey: A traced path through the component tree\n")
	sb.WriteString("- component: A frontend component\n")
	sb.WriteString("- data_entity: A domain data entity\n")
	sb.WriteString("- business_rule: A constraint on an entity\n")
	sb.WriteString("\n## Edge Types\n\n")
	sb.WriteString("- implements: Component → Story\n")
	sb.WriteString("- supports: Feature → Capability\n")
	sb.WriteString("- uses: Persona → Story/Journey, Capability → Entity\n")
	sb.WriteString("- depends_on: Feature → Feature, Journey → Journey\n")
	sb.WriteString("- complements: Feature ↔ Feature (shared parts)\n")
	sb.WriteString("- contains: Feature → Component\n")
	sb.WriteString("- involves: Journey → Component\n")
	sb.WriteString("- navigates_to: Journey → Journey\n")
	sb.WriteString("- transforms: Component → Component (data flow)\n")
	sb.WriteString("- validates: Rule → Entity\n")

	return sb.String()
}

func getLegend() string {
	var sb strings.Builder
	sb.WriteString("# Graph Legend\n\n")
	sb.WriteString("| Type | Label | Color | Icon |\n")
	sb.WriteString("|------|-------|-------|------|\n")
	for _, entry := range bizgraph.Legend() {
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n",
			string(entry.Type), entry.Label, entry.Color, entry.Icon))
	}
	return sb.String()
}

// Helper functions

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}

// findFeature matches a business feature by ID first, then by exact label,
// then by case-insensitive label.
func findFeature(g *bizgraph.Graph, name string) *bizgraph.Node {
	var byLabel *bizgraph.Node
	for _, n := range g.Nodes {
		if n.Type != bizgraph.NodeBusinessFeature {
			continue
		}
		if n.ID == name {
			return n
		}
		if n.Label == name {
			return n
		}
		if byLabel == nil && strings.EqualFold(n.Label, name) {
			byLabel = n
		}
	}
	return byLabel
}

func labelOf(g *bizgraph.Graph, id string) string {
	for _, n := range g.Nodes {
		if n.ID == id {
			return fmt.Sprintf("%s (%s)", n.Label, id)
		}
	}
	return id
}

// dataInt reads an integer from a node's data map. Values arrive as float64
// after a JSON round-trip through the snapshot store.
func dataInt(n *bizgraph.Node, key string) int {
	switch v := n.Data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
