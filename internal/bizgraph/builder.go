package bizgraph

import (
	"math"

	"github.com/seergraph/seer-go/internal/facts"
	"github.com/seergraph/seer-go/internal/journey"
	"github.com/seergraph/seer-go/internal/mapper"
)

// BusinessContext carries the externally supplied business-text facts.
type BusinessContext struct {
	Stories      []facts.UserStory
	Capabilities []facts.BusinessCapability
	Entities     []facts.DataEntity
	Rules        []facts.BusinessRule
	Personas     []string
}

// ComponentGraph carries the mapper stage outputs.
type ComponentGraph struct {
	Mappings map[string]*mapper.ComponentMapping
	Features []mapper.BusinessFeature
	Domains  []mapper.BusinessDomain
}

// Builder assembles the unified business graph.
//
// A Builder owns mutable internal lookup tables that are rebuilt fresh on
// each BuildGraph call; no state persists across calls. It is not safe for
// concurrent use — callers must serialize access or instantiate per call.
type Builder struct {
	totalWidth  float64
	levelHeight float64
	provenance  Provenance

	arena *arena
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLayoutWidth overrides the total horizontal layout width.
func WithLayoutWidth(width float64) BuilderOption {
	return func(b *Builder) {
		b.totalWidth = width
	}
}

// WithProvenance attaches source provenance to the graph metadata.
func WithProvenance(p Provenance) BuilderOption {
	return func(b *Builder) {
		b.provenance = p
	}
}

// NewBuilder creates a Builder with default layout dimensions.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		totalWidth:  1200,
		levelHeight: 150,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildGraph unifies the mapper and tracer outputs with the business-text
// facts into one graph. It executes as a single linear pass: node batches,
// edge batches, clusters, a metrics pass, statistics, and layout. The
// returned graph is never mutated afterwards.
func (b *Builder) BuildGraph(bc *BusinessContext, cg *ComponentGraph, jm *journey.JourneyMap) *Graph {
	b.arena = newArena()

	b.addPersonaNodes(bc)
	b.addStoryNodes(bc)
	b.addCapabilityNodes(bc)
	b.addFeatureNodes(cg)
	b.addJourneyNodes(jm)
	b.addComponentNodes(cg)
	b.addEntityNodes(bc)
	b.addRuleNodes(bc)

	b.addStoryEdges(bc)
	b.addCapabilityEdges(bc)
	b.addFeatureEdges(cg)
	b.addJourneyEdges(jm)
	b.addDataFlowEdges(jm)
	b.addRuleEdges(bc)

	clusters := b.buildClusters(cg, jm)
	b.applyMetrics()
	stats := b.computeStatistics()
	b.applyLayout()

	return &Graph{
		Nodes:    b.arena.nodes,
		Edges:    b.arena.edges,
		Clusters: clusters,
		Metadata: Metadata{
			Statistics: stats,
			View: ViewOptions{
				TotalWidth:  b.totalWidth,
				LevelHeight: b.levelHeight,
			},
			Legend:     Legend(),
			Provenance: b.provenance,
		},
	}
}

// Node ID helpers. IDs are deterministic so repeated builds from identical
// inputs produce structurally equal graphs.

func personaID(name string) string   { return "persona-" + name }
func storyID(id string) string       { return "story-" + id }
func capabilityID(id string) string  { return "capability-" + id }
func componentID(name string) string { return "component-" + name }
func entityID(id string) string      { return "entity-" + id }
func ruleID(id string) string        { return "rule-" + id }

// Node batches, one per node type.

func (b *Builder) addPersonaNodes(bc *BusinessContext) {
	for _, name := range bc.Personas {
		b.arena.AddNode(&Node{
			ID:    personaID(name),
			Type:  NodeUserPersona,
			Label: name,
		})
	}
}

func (b *Builder) addStoryNodes(bc *BusinessContext) {
	for _, s := range bc.Stories {
		b.arena.AddNode(&Node{
			ID:    storyID(s.ID),
			Type:  NodeUserStory,
			Label: s.Title,
			Data: map[string]any{
				"priority": s.Priority,
				"personas": s.Personas,
			},
		})
	}
}

func (b *Builder) addCapabilityNodes(bc *BusinessContext) {
	for _, c := range bc.Capabilities {
		b.arena.AddNode(&Node{
			ID:          capabilityID(c.ID),
			Type:        NodeBusinessCapability,
			Label:       c.Name,
			Description: c.Description,
			Data: map[string]any{
				"businessValue": c.BusinessValue,
			},
		})
	}
}

func (b *Builder) addFeatureNodes(cg *ComponentGraph) {
	for i := range cg.Features {
		f := &cg.Features[i]
		b.arena.AddNode(&Node{
			ID:    f.ID,
			Type:  NodeBusinessFeature,
			Label: f.Name,
			Data: map[string]any{
				"category":            string(f.Category),
				"businessValue":       f.BusinessValue,
				"technicalComplexity": f.TechnicalComplexity,
			},
			Tags: []string{string(f.Category)},
		})
	}
}

func (b *Builder) addJourneyNodes(jm *journey.JourneyMap) {
	for i := range jm.Journeys {
		j := &jm.Journeys[i]
		b.arena.AddNode(&Node{
			ID:          j.ID,
			Type:        NodeUserJourney,
			Label:       j.Name,
			Description: j.Goal,
			Data: map[string]any{
				"persona":   j.Persona,
				"trigger":   j.Trigger,
				"stepCount": j.Metrics.StepCount,
			},
		})
	}
}

func (b *Builder) addComponentNodes(cg *ComponentGraph) {
	// Components are added through feature ownership so insertion order
	// follows the feature list, which is deterministic.
	for i := range cg.Features {
		for _, m := range cg.Features[i].Components {
			b.arena.AddNode(&Node{
				ID:          componentID(m.ComponentName),
				Type:        NodeComponent,
				Label:       m.ComponentName,
				Description: m.Responsibility,
				Data: map[string]any{
					"componentType": string(m.Type),
					"purpose":       m.Purpose,
					"patternCount":  len(m.Patterns),
				},
			})
		}
	}
}

func (b *Builder) addEntityNodes(bc *BusinessContext) {
	for _, e := range bc.Entities {
		b.arena.AddNode(&Node{
			ID:    entityID(e.ID),
			Type:  NodeDataEntity,
			Label: e.Name,
			Data: map[string]any{
				"attributes": e.Attributes,
				"operations": e.Operations,
			},
		})
	}
}

func (b *Builder) addRuleNodes(bc *BusinessContext) {
	for _, r := range bc.Rules {
		b.arena.AddNode(&Node{
			ID:          ruleID(r.ID),
			Type:        NodeBusinessRule,
			Label:       r.Name,
			Description: r.Description,
		})
	}
}

// Edge batches. All go through arena.AddEdge, which drops duplicate
// (source, target, type) keys and edges with missing endpoints.

func (b *Builder) addStoryEdges(bc *BusinessContext) {
	for _, c := range bc.Capabilities {
		for _, sid := range c.UserStories {
			b.arena.AddEdge(&Edge{
				Source: storyID(sid),
				Target: capabilityID(c.ID),
				Type:   EdgeSupports,
			})
			// Components declared on the capability implement its
			// stories.
			for _, comp := range c.Components {
				b.arena.AddEdge(&Edge{
					Source: componentID(comp),
					Target: storyID(sid),
					Type:   EdgeImplements,
				})
			}
		}
	}

	for _, s := range bc.Stories {
		for _, p := range s.Personas {
			b.arena.AddEdge(&Edge{
				Source: personaID(p),
				Target: storyID(s.ID),
				Type:   EdgeUses,
			})
		}
	}
}

func (b *Builder) addCapabilityEdges(bc *BusinessContext) {
	for _, c := range bc.Capabilities {
		for _, eid := range c.DataEntities {
			b.arena.AddEdge(&Edge{
				Source: capabilityID(c.ID),
				Target: entityID(eid),
				Type:   EdgeUses,
			})
		}
	}
}

func (b *Builder) addFeatureEdges(cg *ComponentGraph) {
	for i := range cg.Features {
		f := &cg.Features[i]

		for _, m := range f.Components {
			b.arena.AddEdge(&Edge{
				Source: f.ID,
				Target: componentID(m.ComponentName),
				Type:   EdgeContains,
			})
		}

		for _, dep := range f.Dependencies {
			edgeType := EdgeComplements
			if dep.Type == "depends_on" {
				edgeType = EdgeDependsOn
			}
			b.arena.AddEdge(&Edge{
				Source: f.ID,
				Target: dep.FeatureID,
				Type:   edgeType,
				Weight: dep.Strength,
			})
		}
	}
}

func (b *Builder) addJourneyEdges(jm *journey.JourneyMap) {
	for i := range jm.Journeys {
		j := &jm.Journeys[i]
		for _, s := range j.Steps {
			b.arena.AddEdge(&Edge{
				Source: j.ID,
				Target: componentID(s.Component),
				Type:   EdgeInvolves,
			})
		}
		b.arena.AddEdge(&Edge{
			Source: personaID(j.Persona),
			Target: j.ID,
			Type:   EdgeUses,
		})
	}

	for _, rel := range jm.Relationships {
		edgeType := EdgeNavigatesTo
		if rel.Type == "requires" {
			edgeType = EdgeDependsOn
		}
		b.arena.AddEdge(&Edge{
			Source: rel.From,
			Target: rel.To,
			Type:   edgeType,
		})
	}
}

func (b *Builder) addDataFlowEdges(jm *journey.JourneyMap) {
	for _, e := range jm.FlowGraph.Edges {
		b.arena.AddEdge(&Edge{
			Source: componentID(e.From),
			Target: componentID(e.To),
			Type:   EdgeTransforms,
			Label:  e.Criticality,
		})
	}
}

func (b *Builder) addRuleEdges(bc *BusinessContext) {
	for _, r := range bc.Rules {
		for _, eid := range r.Entities {
			b.arena.AddEdge(&Edge{
				Source: ruleID(r.ID),
				Target: entityID(eid),
				Type:   EdgeValidates,
			})
		}
		for _, comp := range r.Components {
			b.arena.AddEdge(&Edge{
				Source: ruleID(r.ID),
				Target: componentID(comp),
				Type:   EdgeValidates,
			})
		}
	}
}

// buildClusters builds the three independent, possibly-overlapping cluster
// sets: domains, features (with an auto-collapse hint for large ones), and
// journeys grouped by persona.
func (b *Builder) buildClusters(cg *ComponentGraph, jm *journey.JourneyMap) []*Cluster {
	var clusters []*Cluster

	featureComponents := make(map[string][]string, len(cg.Features))
	for i := range cg.Features {
		f := &cg.Features[i]
		for _, m := range f.Components {
			featureComponents[f.ID] = append(featureComponents[f.ID], componentID(m.ComponentName))
		}
	}

	for _, d := range cg.Domains {
		members := make([]string, 0, len(d.Features))
		for _, fid := range d.Features {
			members = append(members, fid)
			members = append(members, featureComponents[fid]...)
		}
		clusters = append(clusters, &Cluster{
			ID:      "cluster-domain-" + d.Name,
			Kind:    ClusterDomain,
			Label:   d.Name,
			Members: members,
		})
	}

	for i := range cg.Features {
		f := &cg.Features[i]
		members := append([]string{f.ID}, featureComponents[f.ID]...)
		clusters = append(clusters, &Cluster{
			ID:       "cluster-" + f.ID,
			Kind:     ClusterFeature,
			Label:    f.Name,
			Members:  members,
			Collapse: len(members) > 5,
		})
	}

	byPersona := make(map[string][]string)
	var personaOrder []string
	for i := range jm.Journeys {
		j := &jm.Journeys[i]
		if _, seen := byPersona[j.Persona]; !seen {
			personaOrder = append(personaOrder, j.Persona)
		}
		byPersona[j.Persona] = append(byPersona[j.Persona], j.ID)
	}
	for _, persona := range personaOrder {
		clusters = append(clusters, &Cluster{
			ID:      "cluster-persona-" + persona,
			Kind:    ClusterJourney,
			Label:   "Journeys of " + persona,
			Members: byPersona[persona],
		})
	}

	return clusters
}

// applyMetrics runs the single metrics pass after all nodes and edges
// exist: connectivity is in-degree plus out-degree, importance the type
// base plus twice the connectivity, capped at 100.
func (b *Builder) applyMetrics() {
	for _, node := range b.arena.nodes {
		connectivity := b.arena.Connectivity(node.ID)
		importance := nodeBaseImportance[node.Type] + 2*connectivity
		if importance > 100 {
			importance = 100
		}
		node.Metrics = &NodeMetrics{
			Connectivity: connectivity,
			Importance:   importance,
		}
	}
}

func (b *Builder) computeStatistics() Statistics {
	stats := Statistics{
		NodeCount:   len(b.arena.nodes),
		EdgeCount:   len(b.arena.edges),
		NodesByType: make(map[NodeType]int),
		EdgesByType: make(map[EdgeType]int),
	}

	totalConnectivity := 0
	for _, node := range b.arena.nodes {
		stats.NodesByType[node.Type]++
		c := b.arena.Connectivity(node.ID)
		totalConnectivity += c
		if c == 0 {
			stats.IsolatedNodes++
		}
	}
	for _, edge := range b.arena.edges {
		stats.EdgesByType[edge.Type]++
	}

	n := float64(stats.NodeCount)
	if n > 0 {
		stats.AvgConnectivity = float64(totalConnectivity) / n
	}
	if n > 1 {
		stats.Density = float64(stats.EdgeCount) / (n * (n - 1) / 2)
	}

	return stats
}

// applyLayout pins each node type to its fixed vertical level and spaces
// same-level nodes evenly along the horizontal axis. The layout is static
// and ignores edge crossings; the presentation layer re-derives the final
// on-screen positions.
func (b *Builder) applyLayout() {
	byLevel := make(map[int][]*Node)
	for _, node := range b.arena.nodes {
		level := nodeLevels[node.Type]
		byLevel[level] = append(byLevel[level], node)
	}

	for level, nodes := range byLevel {
		spacing := b.totalWidth / float64(len(nodes))
		for i, node := range nodes {
			node.Position = &Position{
				X: math.Round(spacing*float64(i)+spacing/2),
				Y: float64(level) * b.levelHeight,
			}
		}
	}
}
