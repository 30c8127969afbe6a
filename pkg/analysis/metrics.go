package analysis

import (
	"slices"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Eigenvector centrality iteration limits.
const (
	EigenvectorMaxIter   = 1000
	EigenvectorTolerance = 1e-6
)

// Metrics is a whole-graph statistical summary.
type Metrics struct {
	Basic           BasicStats             `json:"basic_stats"`
	NodeTypes       map[string]int         `json:"node_type_distribution"`
	Centrality      Centrality             `json:"centrality_metrics"`
	Structure       Structure              `json:"structural_metrics"`
	Transformations TransformationPatterns `json:"transformation_patterns"`
}

// BasicStats counts nodes and edges.
type BasicStats struct {
	Nodes           int `json:"total_nodes"`
	Edges           int `json:"total_edges"`
	PitchClasses    int `json:"pitch_classes"`
	Intervals       int `json:"intervals"`
	Transformations int `json:"transformations"`
}

// Centrality holds per-node centrality scores.
type Centrality struct {
	Degree      map[string]float64 `json:"degree_centrality"`
	Betweenness map[string]float64 `json:"betweenness_centrality"`
	Closeness   map[string]float64 `json:"closeness_centrality"`
	Eigenvector map[string]float64 `json:"eigenvector_centrality"`
}

// Structure holds global structural measures.
type Structure struct {
	AverageClustering    float64  `json:"average_clustering"`
	Density              float64  `json:"density"`
	Diameter             Distance `json:"diameter"`
	AverageShortestPath  Distance `json:"average_shortest_path"`
	Components           int      `json:"num_components"`
	LargestComponentSize int      `json:"largest_component_size"`
}

// TransformationPatterns describes how transformations are used.
type TransformationPatterns struct {
	LabelCounts map[string]int `json:"transformation_types"`
	Sequences   [][]string     `json:"common_sequences"`
	Cycles      [][]string     `json:"cyclic_patterns"`
}

// CollectMetrics computes the full metric summary of g.
func CollectMetrics(g *graph.Graph) Metrics {
	u := newUndirected(g)
	m := Metrics{
		Basic: BasicStats{
			Nodes:           g.NodeCount(),
			Edges:           g.EdgeCount(),
			PitchClasses:    len(g.NodesOfType(graph.PitchClass)),
			Intervals:       len(g.NodesOfType(graph.Interval)),
			Transformations: len(g.NodesOfType(graph.Transformation)),
		},
		NodeTypes: make(map[string]int),
		Centrality: Centrality{
			Degree:      u.byID(u.degreeCentrality()),
			Betweenness: u.byID(u.betweenness()),
			Closeness:   u.byID(u.closeness()),
			Eigenvector: u.byID(u.eigenvector(EigenvectorMaxIter, EigenvectorTolerance)),
		},
	}
	for _, n := range g.Nodes() {
		m.NodeTypes[string(n.Type)]++
	}

	clustering := u.clustering()
	if len(clustering) > 0 {
		var sum float64
		for _, c := range clustering {
			sum += c
		}
		m.Structure.AverageClustering = sum / float64(len(clustering))
	}
	m.Structure.Density = u.density()
	m.Structure.Diameter, m.Structure.AverageShortestPath = u.pathStats()
	comps := u.components()
	m.Structure.Components = len(comps)
	for _, c := range comps {
		m.Structure.LargestComponentSize = max(m.Structure.LargestComponentSize, len(c))
	}

	m.Transformations = transformationPatterns(g)
	return m
}

func transformationPatterns(g *graph.Graph) TransformationPatterns {
	p := TransformationPatterns{LabelCounts: make(map[string]int)}
	for _, n := range g.NodesOfType(graph.Transformation) {
		p.LabelCounts[n.Label]++
	}

	isTrans := func(id string) bool {
		n, ok := g.Node(id)
		return ok && n.Type == graph.Transformation
	}
	visited := make(map[string]bool)
	for _, e := range g.Edges() {
		if !isTrans(e.Source) && !isTrans(e.Target) {
			continue
		}
		if visited[e.Source] {
			continue
		}
		seq := followChain(g, e.Source)
		if len(seq) > 1 {
			p.Sequences = append(p.Sequences, seq)
		}
		for _, id := range seq {
			visited[id] = true
		}
	}

	sub := newUndirected(g.Subgraph(func(n graph.Node) bool { return n.Type == graph.Transformation }))
	for _, cycle := range sub.cycles() {
		labels := make([]string, len(cycle))
		for i, id := range cycle {
			n, _ := g.Node(id)
			labels[i] = n.Label
		}
		p.Cycles = append(p.Cycles, labels)
	}
	return p
}

// followChain walks outgoing edges from start, always taking the first edge to
// a node not yet on the chain.
func followChain(g *graph.Graph, start string) []string {
	chain := []string{start}
	for cur := start; ; {
		next := ""
		for _, e := range g.OutEdges(cur) {
			if !slices.Contains(chain, e.Target) {
				next = e.Target
				break
			}
		}
		if next == "" {
			return chain
		}
		chain = append(chain, next)
		cur = next
	}
}
