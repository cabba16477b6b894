// Package bizgraph provides the unified business graph model and builder.
//
// It defines the heterogeneous node and edge types that represent
// business-level entities (stories, capabilities, features, components,
// entities, journeys, rules, personas) and the edges between them, plus the
// arena that enforces the edge dedup invariant.
package bizgraph

// NodeType represents the type of a business graph node.
type NodeType string

const (
	NodeUserStory          NodeType = "user_story"
	NodeBusinessCapability NodeType = "business_capability"
	NodeBusinessFeature    NodeType = "business_feature"
	NodeComponent          NodeType = "component"
	NodeDataEntity         NodeType = "data_entity"
	NodeUserJourney        NodeType = "user_journey"
	NodeBusinessRule       NodeType = "business_rule"
	NodeUserPersona        NodeType = "user_persona"
)

// NodeTypes lists every node type in level order.
var NodeTypes = []NodeType{
	NodeUserPersona,
	NodeUserStory,
	NodeBusinessCapability,
	NodeBusinessFeature,
	NodeUserJourney,
	NodeComponent,
	NodeDataEntity,
	NodeBusinessRule,
}

// EdgeType represents the type of a business graph edge.
type EdgeType string

const (
	EdgeImplements  EdgeType = "implements"   // component -> user_story
	EdgeSupports    EdgeType = "supports"     // user_story -> business_capability
	EdgeUses        EdgeType = "uses"         // business_capability -> data_entity
	EdgeDependsOn   EdgeType = "depends_on"   // feature -> feature, journey -> journey
	EdgeComplements EdgeType = "complements"  // feature -> feature
	EdgeContains    EdgeType = "contains"     // feature -> component
	EdgeInvolves    EdgeType = "involves"     // journey -> component
	EdgeNavigatesTo EdgeType = "navigates_to" // journey -> journey
	EdgeTransforms  EdgeType = "transforms"   // component -> component
	EdgeValidates   EdgeType = "validates"    // rule -> entity or component
)

// Position is a deterministic layout coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeMetrics carries per-node measures computed after assembly.
type NodeMetrics struct {
	// Connectivity is in-degree plus out-degree.
	Connectivity int `json:"connectivity"`

	// Importance is the type base plus twice the connectivity, capped
	// at 100.
	Importance int `json:"importance"`
}

// Node is one node in the business graph.
type Node struct {
	ID          string         `json:"id"`
	Type        NodeType       `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	Position    *Position      `json:"position,omitempty"`
	Metrics     *NodeMetrics   `json:"metrics,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// Edge is one directed edge. Identity is the composite (source, target,
// type) key; at most one edge may exist per key.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	Label  string   `json:"label,omitempty"`

	// Weight is in [0,1] where the source relationship carries one.
	Weight float64 `json:"weight,omitempty"`
}

// ClusterKind distinguishes the three cluster sets.
type ClusterKind string

const (
	ClusterDomain  ClusterKind = "domain"
	ClusterFeature ClusterKind = "feature"
	ClusterJourney ClusterKind = "journey"
)

// Cluster is a named, possibly-overlapping subset of graph nodes.
type Cluster struct {
	ID      string      `json:"id"`
	Kind    ClusterKind `json:"kind"`
	Label   string      `json:"label"`
	Members []string    `json:"members"`

	// Collapse hints the presentation layer to start the cluster
	// collapsed.
	Collapse bool `json:"collapse,omitempty"`
}

// Statistics summarizes the assembled graph.
type Statistics struct {
	NodeCount       int              `json:"nodeCount"`
	EdgeCount       int              `json:"edgeCount"`
	NodesByType     map[NodeType]int `json:"nodesByType"`
	EdgesByType     map[EdgeType]int `json:"edgesByType"`
	AvgConnectivity float64          `json:"avgConnectivity"`

	// Density is edges / (n(n-1)/2). An undirected-style approximation
	// applied to a directed graph; kept as documented behavior.
	Density float64 `json:"density"`

	IsolatedNodes int `json:"isolatedNodes"`
}

// ViewOptions carries presentation defaults for exporters.
type ViewOptions struct {
	TotalWidth  float64 `json:"totalWidth"`
	LevelHeight float64 `json:"levelHeight"`
}

// LegendEntry describes one node type for the presentation layer.
type LegendEntry struct {
	Type  NodeType `json:"type"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	Icon  string   `json:"icon"`
}

// Provenance records where the input facts came from.
type Provenance struct {
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// Metadata is graph-level information attached to the built graph.
type Metadata struct {
	Statistics Statistics    `json:"statistics"`
	View       ViewOptions   `json:"view"`
	Legend     []LegendEntry `json:"legend"`
	Provenance Provenance    `json:"provenance,omitempty"`
}

// Graph is the final unified business graph. It is built once per
// BuildGraph call and never mutated after return.
type Graph struct {
	Nodes    []*Node    `json:"nodes"`
	Edges    []*Edge    `json:"edges"`
	Clusters []*Cluster `json:"clusters,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// Per-type presentation and layout tables. Lookups are exhaustive over
// NodeTypes; an unmapped type is a bug, not a silent fallthrough.

var nodeColors = map[NodeType]string{
	NodeUserPersona:        "#8e44ad",
	NodeUserStory:          "#2980b9",
	NodeBusinessCapability: "#c0392b",
	NodeBusinessFeature:    "#d35400",
	NodeUserJourney:        "#16a085",
	NodeComponent:          "#7f8c8d",
	NodeDataEntity:         "#27ae60",
	NodeBusinessRule:       "#f39c12",
}

var nodeIcons = map[NodeType]string{
	NodeUserPersona:        "person",
	NodeUserStory:          "bookmark",
	NodeBusinessCapability: "flag",
	NodeBusinessFeature:    "star",
	NodeUserJourney:        "route",
	NodeComponent:          "widget",
	NodeDataEntity:         "database",
	NodeBusinessRule:       "gavel",
}

// nodeBaseImportance is the initial importance before the metrics pass.
var nodeBaseImportance = map[NodeType]int{
	NodeUserPersona:        30,
	NodeUserStory:          40,
	NodeBusinessCapability: 70,
	NodeBusinessFeature:    60,
	NodeUserJourney:        50,
	NodeComponent:          20,
	NodeDataEntity:         40,
	NodeBusinessRule:       30,
}

// nodeLevels pins each node type to a vertical layout level, persona at the
// top (0) down to the integration layer (6). Entities and rules share the
// integration level.
var nodeLevels = map[NodeType]int{
	NodeUserPersona:        0,
	NodeUserStory:          1,
	NodeBusinessCapability: 2,
	NodeBusinessFeature:    3,
	NodeUserJourney:        4,
	NodeComponent:          5,
	NodeDataEntity:         6,
	NodeBusinessRule:       6,
}

// legendLabels names each node type for the legend.
var legendLabels = map[NodeType]string{
	NodeUserPersona:        "User Persona",
	NodeUserStory:          "User Story",
	NodeBusinessCapability: "Business Capability",
	NodeBusinessFeature:    "Business Feature",
	NodeUserJourney:        "User Journey",
	NodeComponent:          "Component",
	NodeDataEntity:         "Data Entity",
	NodeBusinessRule:       "Business Rule",
}

// Legend returns the fixed presentation legend in level order.
func Legend() []LegendEntry {
	legend := make([]LegendEntry, 0, len(NodeTypes))
	for _, t := range NodeTypes {
		legend = append(legend, LegendEntry{
			Type:  t,
			Label: legendLabels[t],
			Color: nodeColors[t],
			Icon:  nodeIcons[t],
		})
	}
	return legend
}
