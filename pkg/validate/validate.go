// Package validate checks the structural invariants of a graph.
//
// Validation never stops at the first problem: every rule runs and each
// violation contributes one message, so callers can report all problems in
// one pass. An empty result means the graph is valid.
package validate

import (
	"fmt"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Rule is one named structural check.
type Rule struct {
	Name  string
	Check func(g *graph.Graph) []string
}

// Rules are the default checks in the order they run.
var Rules = []Rule{
	{Name: "connectivity", Check: Connectivity},
	{Name: "node_types", Check: NodeTypes},
	{Name: "edges", Check: Edges},
	{Name: "transformation_connectivity", Check: TransformationConnectivity},
}

// Validate runs every default rule and returns all violations.
func Validate(g *graph.Graph) []string {
	return ValidateWith(g, Rules...)
}

// ValidateWith runs the given rules in order and returns all violations.
func ValidateWith(g *graph.Graph, rules ...Rule) []string {
	var out []string
	for _, r := range rules {
		out = append(out, r.Check(g)...)
	}
	return out
}

// Connectivity walks the graph from its first node over both edge directions
// and reports a violation if any node is unreached.
func Connectivity(g *graph.Graph) []string {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return nil
	}
	adj := g.Adjacency()
	visited := map[string]bool{ids[0]: true}
	stack := []string{ids[0]}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[id] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	unreached := 0
	for _, id := range ids {
		if !visited[id] {
			unreached++
		}
	}
	if unreached > 0 {
		return []string{fmt.Sprintf("graph is not connected: %d of %d nodes unreachable from %q",
			unreached, len(ids), ids[0])}
	}
	return nil
}

// NodeTypes reports every node whose type is outside the closed NodeType set.
func NodeTypes(g *graph.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		if !n.Type.Valid() {
			out = append(out, fmt.Sprintf("node %q has invalid type %q", n.ID, n.Type))
		}
	}
	return out
}

// Edges reports every edge that references a missing node.
func Edges(g *graph.Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		if !g.HasNode(e.Source) {
			out = append(out, fmt.Sprintf("edge %q -> %q references missing source node", e.Source, e.Target))
		}
		if !g.HasNode(e.Target) {
			out = append(out, fmt.Sprintf("edge %q -> %q references missing target node", e.Source, e.Target))
		}
	}
	return out
}

// TransformationConnectivity reports every transformation node that touches
// fewer than two edges. A transformation relates a domain and a codomain.
func TransformationConnectivity(g *graph.Graph) []string {
	var out []string
	for _, n := range g.NodesOfType(graph.Transformation) {
		if d := g.Degree(n.ID); d < 2 {
			out = append(out, fmt.Sprintf("transformation node %q is not properly connected (%d edges, need 2)", n.ID, d))
		}
	}
	return out
}
