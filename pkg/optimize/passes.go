package optimize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// MergeSimilarNodes collapses nodes sharing (type, label).
func MergeSimilarNodes(g *graph.Graph) *graph.Graph {
	type key struct {
		t     graph.NodeType
		label string
	}
	var order []key
	groups := make(map[key][]graph.Node)
	for _, n := range g.Nodes() {
		k := key{n.Type, n.Label}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], n)
	}

	out := graph.New()
	rename := make(map[string]string, g.NodeCount())
	for _, k := range order {
		members := groups[k]
		if len(members) == 1 {
			out.AddNode(members[0].Clone())
			rename[members[0].ID] = members[0].ID
			continue
		}
		merged := mergeNodes(members)
		out.AddNode(merged)
		for _, m := range members {
			rename[m.ID] = merged.ID
		}
	}

	for _, e := range g.Edges() {
		src, dst := rename[e.Source], rename[e.Target]
		if src == dst && !e.IsLoop() {
			continue
		}
		c := e.Clone()
		c.Source, c.Target = src, dst
		out.AddEdge(c)
	}
	return out
}

func mergeNodes(members []graph.Node) graph.Node {
	ids := make([]string, len(members))
	props := graph.Properties{}
	var pos *graph.Point
	for i, m := range members {
		ids[i] = m.ID
		for k, v := range m.Properties.Clone() {
			props[k] = v
		}
		if pos == nil && m.Position != nil {
			p := *m.Position
			pos = &p
		}
	}
	return graph.Node{
		ID:         "merged_" + strings.Join(ids, "_"),
		Type:       members[0].Type,
		Label:      members[0].Label,
		Properties: props,
		Position:   pos,
	}
}

// RemoveRedundantEdges keeps the most significant edge per (source, target).
func RemoveRedundantEdges(g *graph.Graph) *graph.Graph {
	out := graph.New()
	for _, n := range g.Nodes() {
		out.AddNode(n.Clone())
	}

	var order [][2]string
	best := make(map[[2]string]graph.Edge)
	for _, e := range g.Edges() {
		k := e.Pair()
		cur, ok := best[k]
		if !ok {
			order = append(order, k)
			best[k] = e
			continue
		}
		if moreSignificant(e, cur) {
			best[k] = e
		}
	}
	for _, k := range order {
		out.AddEdge(best[k].Clone())
	}
	return out
}

func moreSignificant(a, b graph.Edge) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return len(a.Properties) > len(b.Properties)
}

// SimplifyTransformationChains collapses chains of transformation nodes. A
// chain becomes trans_<labels>; when that id is already in use, by an input
// node or an earlier chain with the same labels, it gains "@<first member id>".
func SimplifyTransformationChains(g *graph.Graph) *graph.Graph {
	isTrans := func(id string) bool {
		n, ok := g.Node(id)
		return ok && n.Type == graph.Transformation
	}

	visited := make(map[string]bool)
	rename := make(map[string]string)
	chainOf := make(map[string]int)
	collapsed := make(map[string]graph.Node)
	taken := make(map[string]bool, g.NodeCount())
	for _, id := range g.NodeIDs() {
		taken[id] = true
	}
	chains := 0
	for _, n := range g.NodesOfType(graph.Transformation) {
		if visited[n.ID] {
			continue
		}
		var chain []graph.Node
		for cur := n.ID; cur != "" && !visited[cur]; {
			visited[cur] = true
			node, _ := g.Node(cur)
			chain = append(chain, node)
			next := ""
			for _, e := range g.OutEdges(cur) {
				if isTrans(e.Target) {
					next = e.Target
					break
				}
			}
			cur = next
		}
		if len(chain) < 2 {
			continue
		}
		synth := collapseChain(chain)
		if taken[synth.ID] {
			synth.ID += "@" + chain[0].ID
		}
		taken[synth.ID] = true
		collapsed[chain[0].ID] = synth
		for _, m := range chain {
			rename[m.ID] = synth.ID
			chainOf[m.ID] = chains
		}
		chains++
	}

	out := graph.New()
	for _, n := range g.Nodes() {
		if _, ok := rename[n.ID]; !ok {
			out.AddNode(n.Clone())
			continue
		}
		if synth, ok := collapsed[n.ID]; ok {
			out.AddNode(synth)
		}
	}

	for _, e := range g.Edges() {
		ci, inSrc := chainOf[e.Source]
		cj, inDst := chainOf[e.Target]
		if inSrc && inDst && ci == cj {
			continue
		}
		c := e.Clone()
		if id, ok := rename[c.Source]; ok {
			c.Source = id
		}
		if id, ok := rename[c.Target]; ok {
			c.Target = id
		}
		out.AddEdge(c)
	}
	return out
}

func collapseChain(chain []graph.Node) graph.Node {
	labels := make([]string, len(chain))
	ids := make([]string, len(chain))
	for i, n := range chain {
		labels[i] = n.Label
		ids[i] = n.ID
	}
	return graph.Node{
		ID:         "trans_" + strings.Join(labels, "_"),
		Type:       graph.Transformation,
		Label:      strings.Join(labels, "→"),
		Properties: graph.Properties{"original_chain": ids},
	}
}

// CompressPaths replaces linear runs of nodes with a single edge.
func CompressPaths(g *graph.Graph) *graph.Graph {
	visited := make(map[string]bool)
	var runs [][]string
	for _, id := range g.NodeIDs() {
		if visited[id] {
			continue
		}
		var run []string
		for cur := id; cur != ""; {
			visited[cur] = true
			run = append(run, cur)
			next := ""
			unvisited := 0
			for _, nb := range g.Neighbors(cur) {
				if !visited[nb] {
					unvisited++
					next = nb
				}
			}
			if unvisited != 1 {
				next = ""
			}
			cur = next
		}
		if len(run) > 2 {
			runs = append(runs, run)
		}
	}

	internal := make(map[[2]string]bool)
	for _, run := range runs {
		for i := 1; i < len(run); i++ {
			internal[[2]string{run[i-1], run[i]}] = true
			internal[[2]string{run[i], run[i-1]}] = true
		}
	}

	out := graph.New()
	for _, n := range g.Nodes() {
		out.AddNode(n.Clone())
	}
	for _, e := range g.Edges() {
		if !internal[e.Pair()] {
			out.AddEdge(e.Clone())
		}
	}
	for _, run := range runs {
		e := graph.NewEdge(run[0], run[len(run)-1], fmt.Sprintf("compressed_path_%d", len(run)))
		e.Properties["original_path"] = slices.Clone(run)
		out.AddEdge(e)
	}
	return out
}
