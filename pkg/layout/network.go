package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// typeLevels fixes the layer of the well-known types in a type-grouped
// layout. Other types follow in order of first appearance.
var typeLevels = []graph.NodeType{graph.PitchClass, graph.Transformation, graph.SetClass}

// gisBands maps each GIS node type to its band index below y = 0.
var gisBands = map[graph.NodeType]int{
	graph.GISSpace:       0,
	graph.NetworkNode:    1,
	graph.Transformation: 2,
}

// splitOrder is the type priority used to seed isomorphic sub-networks.
var splitOrder = []graph.NodeType{graph.GISSpace, graph.NetworkNode, graph.Transformation}

func transformationNetwork(g *graph.Graph, p Params) *graph.Graph {
	if p.String("layout_style", "") == "circular" || !p.Bool("hierarchical", true) {
		return circularNetwork(g, p)
	}
	return place(g, typeGrouped(g, p))
}

// circularNetwork puts pitch classes on an outer circle and transformations on
// an inner one. Everything else goes on a three-column grid below the circle.
func circularNetwork(g *graph.Graph, p Params) *graph.Graph {
	radius := p.Float("radius", 1)
	centered := p.Bool("center_transformations", true)

	var pcs, trans, rest []string
	for _, n := range g.Nodes() {
		switch {
		case n.Type == graph.PitchClass:
			pcs = append(pcs, n.ID)
		case n.Type == graph.Transformation && centered:
			trans = append(trans, n.ID)
		default:
			rest = append(rest, n.ID)
		}
	}

	pos := make(map[string]graph.Point, g.NodeCount())
	ring(pos, pcs, radius)
	ring(pos, trans, radius*0.5)
	gs := radius * 0.3
	for i, id := range rest {
		row, col := i/3, i%3
		pos[id] = graph.Point{X: -radius + float64(col)*gs, Y: -radius - float64(row)*gs}
	}
	return place(g, pos)
}

func ring(pos map[string]graph.Point, ids []string, r float64) {
	for i, id := range ids {
		angle := 2 * math.Pi * float64(i) / float64(len(ids))
		pos[id] = graph.Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}
}

// typeGrouped stacks one row per node type.
func typeGrouped(g *graph.Graph, p Params) map[string]graph.Point {
	levelSpacing := p.Float("level_spacing", 1)
	nodeSpacing := p.Float("node_spacing", 1)

	order := slices.Clone(typeLevels)
	rows := make(map[graph.NodeType][]string)
	for _, n := range g.Nodes() {
		if !slices.Contains(order, n.Type) {
			order = append(order, n.Type)
		}
		rows[n.Type] = append(rows[n.Type], n.ID)
	}

	pos := make(map[string]graph.Point, g.NodeCount())
	for level, t := range order {
		spread(pos, rows[t], nodeSpacing, levelSpacing*float64(level))
	}
	return pos
}

// hierarchical layers nodes by depth below the roots, which are nodes with no
// incoming edge. Each node is visited once in depth-first order, so a node
// reachable along several paths takes the depth of the first one found. Nodes
// on a cycle with no root start their own tree at depth 0.
func hierarchical(g *graph.Graph, p Params) *graph.Graph {
	levelHeight := p.Float("level_height", 1)
	nodeWidth := p.Float("node_width", 1)

	var levels [][]string
	visited := make(map[string]bool, g.NodeCount())
	visit := func(root string) {
		type frame struct {
			id    string
			depth int
		}
		stack := []frame{{root, 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[f.id] {
				continue
			}
			visited[f.id] = true
			if f.depth == len(levels) {
				levels = append(levels, nil)
			}
			levels[f.depth] = append(levels[f.depth], f.id)
			out := g.OutEdges(f.id)
			for i := len(out) - 1; i >= 0; i-- {
				if !visited[out[i].Target] {
					stack = append(stack, frame{out[i].Target, f.depth + 1})
				}
			}
		}
	}

	for _, id := range g.NodeIDs() {
		if len(g.InEdges(id)) == 0 {
			visit(id)
		}
	}
	for _, id := range g.NodeIDs() {
		if !visited[id] {
			visit(id)
		}
	}

	pos := make(map[string]graph.Point, g.NodeCount())
	for level, ids := range levels {
		spread(pos, ids, nodeWidth, -levelHeight*float64(level))
	}
	return place(g, pos)
}

func gisNetwork(g *graph.Graph, p Params) *graph.Graph {
	levelSpacing := p.Float("level_spacing", 1.5)
	nodeSpacing := p.Float("node_spacing", 1.2)

	pos := make(map[string]graph.Point)
	count := make(map[graph.NodeType]int)
	for _, n := range g.Nodes() {
		band, ok := gisBands[n.Type]
		if !ok {
			continue
		}
		pos[n.ID] = graph.Point{X: nodeSpacing * float64(count[n.Type]), Y: -levelSpacing * float64(band)}
		count[n.Type]++
	}
	return place(g, pos)
}

// isomorphicNetwork lays out each sub-network with the type-grouped layout and
// sets them side by side. A sub-network linked by an isomorphism edge to an
// earlier one is raised by vertical_spacing.
func isomorphicNetwork(g *graph.Graph, p Params) *graph.Graph {
	spacing := p.Float("spacing", 2)
	vertical := p.Float("vertical_spacing", 1.5)

	networks := SplitNetworks(g)
	owner := make(map[string]int, g.NodeCount())
	for i, ids := range networks {
		for _, id := range ids {
			owner[id] = i
		}
	}

	pos := make(map[string]graph.Point, g.NodeCount())
	for i := range networks {
		sub := g.Subgraph(func(n graph.Node) bool { return owner[n.ID] == i })
		dy := 0.0
		if i > 0 && linkedToEarlier(g, owner, i) {
			dy = vertical
		}
		dx := float64(i) * spacing * 3
		for id, pt := range typeGrouped(sub, p) {
			pos[id] = graph.Point{X: pt.X + dx, Y: pt.Y + dy}
		}
	}

	out := place(g, pos)
	marked := graph.New()
	for _, n := range out.Nodes() {
		marked.AddNode(n)
	}
	for _, e := range out.Edges() {
		if e.IsIsomorphism {
			e.Properties["style"] = "dashed"
			e.Weight = 2
		}
		marked.AddEdge(e)
	}
	return marked
}

func linkedToEarlier(g *graph.Graph, owner map[string]int, i int) bool {
	for _, e := range g.Edges() {
		if !e.IsIsomorphism {
			continue
		}
		s, t := owner[e.Source], owner[e.Target]
		if (s == i && t < i) || (t == i && s < i) {
			return true
		}
	}
	return false
}

// SplitNetworks partitions g into groups of node ids connected by edges that
// are not isomorphism edges. Groups are seeded from GIS spaces first, then
// network nodes, then transformations, then everything else, each in graph
// order.
func SplitNetworks(g *graph.Graph) [][]string {
	adj := make(map[string][]string, g.NodeCount())
	for _, e := range g.Edges() {
		if e.IsIsomorphism {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	visited := make(map[string]bool, g.NodeCount())
	var groups [][]string
	collect := func(root string) {
		var group []string
		stack := []string{root}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] || !g.HasNode(id) {
				continue
			}
			visited[id] = true
			group = append(group, id)
			next := adj[id]
			for i := len(next) - 1; i >= 0; i-- {
				stack = append(stack, next[i])
			}
		}
		groups = append(groups, group)
	}

	nodes := g.Nodes()
	for _, t := range splitOrder {
		for _, n := range nodes {
			if n.Type == t && !visited[n.ID] {
				collect(n.ID)
			}
		}
	}
	for _, n := range nodes {
		if !visited[n.ID] {
			collect(n.ID)
		}
	}
	return groups
}
