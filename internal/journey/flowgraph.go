package journey

import "sort"

// BuildDataFlowGraph builds the cross-journey transition graph: one node per
// distinct step component, one edge per (from,to) transition pair. Distinct
// journeys sharing a transition collapse into a single edge, so per-journey
// attribution is not retained.
func (t *Tracer) BuildDataFlowGraph(journeys []UserJourney) DataFlowGraph {
	nodeSet := make(map[string]bool)
	edgeSet := make(map[[2]string]string) // (from,to) -> criticality

	for _, j := range journeys {
		for _, s := range j.Steps {
			nodeSet[s.Component] = true
		}
		for i := 0; i+1 < len(j.Steps); i++ {
			from, to := j.Steps[i], j.Steps[i+1]
			if from.Component == to.Component {
				continue
			}
			key := [2]string{from.Component, to.Component}
			if _, exists := edgeSet[key]; !exists {
				edgeSet[key] = edgeCriticality(from, j.Persona)
			}
		}
	}

	graph := DataFlowGraph{}

	names := make([]string, 0, len(nodeSet))
	for name := range nodeSet {
		names = append(names, name)
	}
	sort.Strings(names)

	clusters := make(map[string][]string)
	for _, name := range names {
		domain := t.classifier.Domain(name)
		graph.Nodes = append(graph.Nodes, FlowNode{Component: name, Domain: domain})
		clusters[domain] = append(clusters[domain], name)
	}

	keys := make([][2]string, 0, len(edgeSet))
	for key := range edgeSet {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, k int) bool {
		if keys[i][0] != keys[k][0] {
			return keys[i][0] < keys[k][0]
		}
		return keys[i][1] < keys[k][1]
	})
	for _, key := range keys {
		graph.Edges = append(graph.Edges, FlowEdge{
			From:        key[0],
			To:          key[1],
			Criticality: edgeSet[key],
		})
	}

	domains := make([]string, 0, len(clusters))
	for domain := range clusters {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	for _, domain := range domains {
		graph.Clusters = append(graph.Clusters, FlowCluster{
			Name:       domain,
			Components: clusters[domain],
		})
	}

	return graph
}

// edgeCriticality assigns criticality from a fixed table over the source
// step's type and operation and the journey persona.
func edgeCriticality(from JourneyStep, persona string) string {
	switch {
	case from.Operation == OpDelete:
		return "critical"
	case from.Type == StepDataOperation, persona == "admin":
		return "high"
	case from.Type == StepNavigation:
		return "low"
	default:
		return "medium"
	}
}
