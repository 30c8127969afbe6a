package graph

import "slices"

// Graph is an id-keyed node arena plus an edge sequence.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	nodes   map[string]Node
	order   []string
	edges   []Edge
	dropped int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// AddNode inserts n, replacing any existing node with the same id. A replaced
// node keeps its original iteration slot.
func (g *Graph) AddNode(n Node) {
	if n.Properties == nil {
		n.Properties = Properties{}
	}
	if _, ok := g.nodes[n.ID]; !ok {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddEdge appends e if both endpoints exist and reports whether it did.
// An edge with a missing endpoint is silently dropped and counted in
// [Graph.DroppedEdges].
func (g *Graph) AddEdge(e Edge) bool {
	if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
		g.dropped++
		return false
	}
	if e.Properties == nil {
		e.Properties = Properties{}
	}
	g.edges = append(g.edges, e)
	return true
}

// DroppedEdges returns how many AddEdge calls were ignored because an endpoint
// was missing.
func (g *Graph) DroppedEdges() int { return g.dropped }

// RecordDropped adds n to the dropped-edge count. Decoders use it to restore
// the count of a serialized graph.
func (g *Graph) RecordDropped(n int) {
	if n > 0 {
		g.dropped += n
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeIDs returns node ids in iteration order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Nodes returns all nodes in iteration order. The returned slice is a copy but
// property maps are shared with the graph.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodesOfType returns the nodes of type t in iteration order.
func (g *Graph) NodesOfType(t NodeType) []Node {
	var out []Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns a copy of the edge sequence.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// OutEdges returns the edges whose source is id.
func (g *Graph) OutEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// InEdges returns the edges whose target is id.
func (g *Graph) InEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of edges touching id. A self-loop counts twice.
func (g *Graph) Degree(id string) int {
	d := 0
	for _, e := range g.edges {
		if e.Source == id {
			d++
		}
		if e.Target == id {
			d++
		}
	}
	return d
}

// Neighbors returns the distinct nodes adjacent to id in either direction, in
// the order their edges appear.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(other string) {
		if other != id && !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	for _, e := range g.edges {
		switch {
		case e.Source == id:
			add(e.Target)
		case e.Target == id:
			add(e.Source)
		}
	}
	return out
}

// Adjacency builds an undirected adjacency list over all nodes. Every node is
// present as a key, neighbor lists are deduplicated and self-loops are omitted.
func (g *Graph) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.order))
	seen := make(map[[2]string]bool)
	for _, id := range g.order {
		adj[id] = nil
	}
	for _, e := range g.edges {
		if e.IsLoop() {
			continue
		}
		if !seen[[2]string{e.Source, e.Target}] {
			seen[[2]string{e.Source, e.Target}] = true
			seen[[2]string{e.Target, e.Source}] = true
			adj[e.Source] = append(adj[e.Source], e.Target)
			adj[e.Target] = append(adj[e.Target], e.Source)
		}
	}
	return adj
}

// Clone returns a deep copy of the graph, including the dropped-edge counter.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:   make(map[string]Node, len(g.nodes)),
		order:   slices.Clone(g.order),
		edges:   make([]Edge, len(g.edges)),
		dropped: g.dropped,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.Clone()
	}
	for i, e := range g.edges {
		c.edges[i] = e.Clone()
	}
	return c
}

// Subgraph returns the graph induced by the nodes for which keep returns true.
func (g *Graph) Subgraph(keep func(Node) bool) *Graph {
	s := New()
	for _, id := range g.order {
		if n := g.nodes[id]; keep(n) {
			s.AddNode(n.Clone())
		}
	}
	for _, e := range g.edges {
		if s.HasNode(e.Source) && s.HasNode(e.Target) {
			s.AddEdge(e.Clone())
		}
	}
	return s
}

// Assemble builds a graph from decoded parts. Unlike AddEdge it keeps edges
// whose endpoints are missing so that a validator can report them. A later
// node with a duplicate id replaces the earlier one.
func Assemble(nodes []Node, edges []Edge) *Graph {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		if e.Properties == nil {
			e.Properties = Properties{}
		}
		g.edges = append(g.edges, e)
	}
	return g
}
