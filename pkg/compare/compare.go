// Package compare reports the differences and similarity between two graphs.
//
// Node and edge sets are compared by id and by (source, target) pair. Structural
// similarity comes from an exact graph edit distance over the undirected
// simple graphs, where inserting or deleting a node or an edge costs 1. The
// search is bounded by a step budget and the caller's deadline, and a search
// that does not finish scores 0.
package compare

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/tonegraph/pkg/analysis"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Defaults for [Options].
const (
	DefaultTimeout  = 2 * time.Second
	DefaultMaxSteps = 1_000_000
)

// Options bound the edit-distance search.
type Options struct {
	Timeout  time.Duration // zero means DefaultTimeout
	MaxSteps int           // zero means DefaultMaxSteps
}

// Report is the full comparison of two graphs.
type Report struct {
	Nodes           NodeDiff      `json:"node_differences"`
	Edges           EdgeDiff      `json:"edge_differences"`
	Structure       StructureDiff `json:"structural_differences"`
	Transformations PatternDiff   `json:"transformation_differences"`
	Similarity      Similarity    `json:"similarity_metrics"`
}

// NodeDiff compares node ids. Slices are sorted.
type NodeDiff struct {
	OnlyInFirst    []string                `json:"unique_to_graph1"`
	OnlyInSecond   []string                `json:"unique_to_graph2"`
	Common         []string                `json:"common"`
	TypeMismatches map[string]TypeMismatch `json:"type_differences"`
}

// TypeMismatch records a shared node id whose type differs between graphs.
type TypeMismatch struct {
	First  graph.NodeType `json:"graph1_type"`
	Second graph.NodeType `json:"graph2_type"`
}

// EdgeDiff compares (source, target) pairs. Slices are sorted.
type EdgeDiff struct {
	OnlyInFirst  [][2]string `json:"unique_to_graph1"`
	OnlyInSecond [][2]string `json:"unique_to_graph2"`
	Common       [][2]string `json:"common"`
}

// StructureDiff holds first-minus-second deltas of whole-graph measures.
type StructureDiff struct {
	Components int     `json:"component_count_diff"`
	Density    float64 `json:"density_diff"`
	MeanDegree float64 `json:"avg_degree_diff"`
}

// PatternDiff compares transformation patterns. A pattern is the sorted labels
// of the transformations reachable from one transformation, ignoring edge
// direction, recorded only when it has more than one member.
type PatternDiff struct {
	OnlyInFirst  [][]string `json:"unique_patterns_graph1"`
	OnlyInSecond [][]string `json:"unique_patterns_graph2"`
	Common       [][]string `json:"common_patterns"`
}

// Similarity scores lie in [0, 1].
type Similarity struct {
	Node       float64 `json:"node_similarity"`
	Edge       float64 `json:"edge_similarity"`
	Structural float64 `json:"structural_similarity"`
}

// Compare builds the comparison report of g1 against g2.
func Compare(ctx context.Context, g1, g2 *graph.Graph, opts Options) Report {
	r := Report{
		Nodes: compareNodes(g1, g2),
		Edges: compareEdges(g1, g2),
		Structure: StructureDiff{
			Components: len(analysis.New(g1).ConnectedComponents()) - len(analysis.New(g2).ConnectedComponents()),
		},
		Transformations: diffPatterns(TransformationPatterns(g1), TransformationPatterns(g2)),
		Similarity: Similarity{
			Node: JaccardNodes(g1, g2),
			Edge: JaccardEdges(g1, g2),
		},
	}
	s1, s2 := simplify(g1), simplify(g2)
	r.Structure.Density = s1.density() - s2.density()
	r.Structure.MeanDegree = s1.meanDegree() - s2.meanDegree()
	r.Similarity.Structural = structuralSimilarity(ctx, s1, s2, opts)
	return r
}

func compareNodes(g1, g2 *graph.Graph) NodeDiff {
	d := NodeDiff{TypeMismatches: make(map[string]TypeMismatch)}
	for _, n := range g1.Nodes() {
		m, ok := g2.Node(n.ID)
		if !ok {
			d.OnlyInFirst = append(d.OnlyInFirst, n.ID)
			continue
		}
		d.Common = append(d.Common, n.ID)
		if m.Type != n.Type {
			d.TypeMismatches[n.ID] = TypeMismatch{First: n.Type, Second: m.Type}
		}
	}
	for _, id := range g2.NodeIDs() {
		if !g1.HasNode(id) {
			d.OnlyInSecond = append(d.OnlyInSecond, id)
		}
	}
	slices.Sort(d.OnlyInFirst)
	slices.Sort(d.OnlyInSecond)
	slices.Sort(d.Common)
	return d
}

func edgeSet(g *graph.Graph) map[[2]string]bool {
	set := make(map[[2]string]bool, g.EdgeCount())
	for _, e := range g.Edges() {
		set[e.Pair()] = true
	}
	return set
}

func comparePairs(a, b [2]string) int {
	if c := strings.Compare(a[0], b[0]); c != 0 {
		return c
	}
	return strings.Compare(a[1], b[1])
}

func compareEdges(g1, g2 *graph.Graph) EdgeDiff {
	e1, e2 := edgeSet(g1), edgeSet(g2)
	var d EdgeDiff
	for p := range e1 {
		if e2[p] {
			d.Common = append(d.Common, p)
		} else {
			d.OnlyInFirst = append(d.OnlyInFirst, p)
		}
	}
	for p := range e2 {
		if !e1[p] {
			d.OnlyInSecond = append(d.OnlyInSecond, p)
		}
	}
	slices.SortFunc(d.OnlyInFirst, comparePairs)
	slices.SortFunc(d.OnlyInSecond, comparePairs)
	slices.SortFunc(d.Common, comparePairs)
	return d
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 1 when both sets are empty.
func jaccard[K comparable](a, b map[K]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// JaccardNodes is the Jaccard index of the two node-id sets.
func JaccardNodes(g1, g2 *graph.Graph) float64 {
	ids := func(g *graph.Graph) map[string]bool {
		set := make(map[string]bool, g.NodeCount())
		for _, id := range g.NodeIDs() {
			set[id] = true
		}
		return set
	}
	return jaccard(ids(g1), ids(g2))
}

// JaccardEdges is the Jaccard index of the two (source, target) pair sets.
func JaccardEdges(g1, g2 *graph.Graph) float64 {
	return jaccard(edgeSet(g1), edgeSet(g2))
}

// TransformationPatterns returns the distinct patterns of g in sorted order.
func TransformationPatterns(g *graph.Graph) [][]string {
	adj := g.Adjacency()
	seen := make(map[string]bool)
	var out [][]string
	for _, t := range g.NodesOfType(graph.Transformation) {
		var labels []string
		visited := map[string]bool{}
		stack := []string{t.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			if n, ok := g.Node(id); ok && n.Type == graph.Transformation {
				labels = append(labels, n.Label)
			}
			stack = append(stack, adj[id]...)
		}
		if len(labels) < 2 {
			continue
		}
		slices.Sort(labels)
		if key := strings.Join(labels, "\x00"); !seen[key] {
			seen[key] = true
			out = append(out, labels)
		}
	}
	slices.SortFunc(out, slices.Compare)
	return out
}

func diffPatterns(p1, p2 [][]string) PatternDiff {
	has := func(ps [][]string, p []string) bool {
		return slices.ContainsFunc(ps, func(q []string) bool { return slices.Equal(p, q) })
	}
	var d PatternDiff
	for _, p := range p1 {
		if has(p2, p) {
			d.Common = append(d.Common, p)
		} else {
			d.OnlyInFirst = append(d.OnlyInFirst, p)
		}
	}
	for _, p := range p2 {
		if !has(p1, p) {
			d.OnlyInSecond = append(d.OnlyInSecond, p)
		}
	}
	return d
}

func structuralSimilarity(ctx context.Context, s1, s2 *simpleGraph, opts Options) float64 {
	size := max(s1.n+s1.edges, s2.n+s2.edges)
	if size == 0 {
		return 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	d, err := editDistance(ctx, s1, s2, opts.MaxSteps)
	if err != nil {
		return 0
	}
	return min(max(1-float64(d)/float64(size), 0), 1)
}
