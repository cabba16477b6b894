package bizgraph

// arena owns the mutable node and edge lookup tables during one BuildGraph
// call. It centrally enforces the edge dedup invariant: at most one edge per
// (source, target, type) key, first writer wins.
//
// An arena is rebuilt fresh per build and is not safe for concurrent use.
type arena struct {
	nodes   []*Node
	edges   []*Edge
	nodeIDs map[string]*Node
	edgeIDs map[string]*Edge

	// Degree indexes, maintained on AddEdge, read by the metrics pass.
	inDegree  map[string]int
	outDegree map[string]int
}

func newArena() *arena {
	return &arena{
		nodeIDs:   make(map[string]*Node),
		edgeIDs:   make(map[string]*Edge),
		inDegree:  make(map[string]int),
		outDegree: make(map[string]int),
	}
}

// edgeKey is the composite dedup key guaranteeing at most one edge per
// asserted relationship.
func edgeKey(source, target string, t EdgeType) string {
	return source + "|" + target + "|" + string(t)
}

// AddNode inserts a node. A node with an existing ID is dropped; the first
// writer wins.
func (a *arena) AddNode(node *Node) {
	if _, exists := a.nodeIDs[node.ID]; exists {
		return
	}
	a.nodeIDs[node.ID] = node
	a.nodes = append(a.nodes, node)
}

// AddEdge inserts an edge keyed by (source, target, type). Duplicate keys
// are silently dropped; existing edges are never overwritten. Edges whose
// endpoints are not in the arena are dropped too, so malformed references
// degrade to a smaller graph instead of dangling edges.
func (a *arena) AddEdge(edge *Edge) {
	if _, ok := a.nodeIDs[edge.Source]; !ok {
		return
	}
	if _, ok := a.nodeIDs[edge.Target]; !ok {
		return
	}

	key := edgeKey(edge.Source, edge.Target, edge.Type)
	if _, exists := a.edgeIDs[key]; exists {
		return
	}
	edge.ID = key
	a.edgeIDs[key] = edge
	a.edges = append(a.edges, edge)
	a.outDegree[edge.Source]++
	a.inDegree[edge.Target]++
}

// Node returns the node with the given ID, or nil.
func (a *arena) Node(id string) *Node {
	return a.nodeIDs[id]
}

// Connectivity returns in-degree plus out-degree for a node.
func (a *arena) Connectivity(id string) int {
	return a.inDegree[id] + a.outDegree[id]
}
