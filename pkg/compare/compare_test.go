package compare

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

func build(nodes map[string]graph.NodeType, order []string, edges ...[2]string) *graph.Graph {
	g := graph.New()
	for _, id := range order {
		g.AddNode(graph.Node{ID: id, Type: nodes[id], Label: id})
	}
	for _, e := range edges {
		g.AddEdge(graph.NewEdge(e[0], e[1], ""))
	}
	return g
}

func pair() (*graph.Graph, *graph.Graph) {
	g1 := build(map[string]graph.NodeType{
		"C": graph.PitchClass, "E": graph.PitchClass,
		"T1": graph.Transformation, "T2": graph.Transformation,
	}, []string{"C", "T1", "T2", "E"},
		[2]string{"C", "T1"}, [2]string{"T1", "T2"}, [2]string{"T2", "E"})
	g2 := build(map[string]graph.NodeType{
		"C": graph.PitchClass, "E": graph.Interval, "G": graph.PitchClass,
		"T1": graph.Transformation, "T2": graph.Transformation,
	}, []string{"C", "T1", "T2", "E", "G"},
		[2]string{"C", "T1"})
	return g1, g2
}

func TestCompare(t *testing.T) {
	g1, g2 := pair()
	got := Compare(context.Background(), g1, g2, Options{})

	want := Report{
		Nodes: NodeDiff{
			OnlyInSecond: []string{"G"},
			Common:       []string{"C", "E", "T1", "T2"},
			TypeMismatches: map[string]TypeMismatch{
				"E": {First: graph.PitchClass, Second: graph.Interval},
			},
		},
		Edges: EdgeDiff{
			OnlyInFirst: [][2]string{{"T1", "T2"}, {"T2", "E"}},
			Common:      [][2]string{{"C", "T1"}},
		},
		Structure: StructureDiff{Components: -3, Density: 0.4, MeanDegree: 1.1},
		Transformations: PatternDiff{
			OnlyInFirst: [][]string{{"T1", "T2"}},
		},
		Similarity: Similarity{Node: 0.8, Edge: 1.0 / 3, Structural: 4.0 / 7},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareIdentical(t *testing.T) {
	g1, _ := pair()
	r := Compare(context.Background(), g1, g1.Clone(), Options{})
	if r.Similarity != (Similarity{Node: 1, Edge: 1, Structural: 1}) {
		t.Errorf("Similarity = %+v, want all 1", r.Similarity)
	}
	if len(r.Transformations.Common) != 1 {
		t.Errorf("Common patterns = %v", r.Transformations.Common)
	}
}

func TestCompareEmpty(t *testing.T) {
	r := Compare(context.Background(), graph.New(), graph.New(), Options{})
	if r.Similarity != (Similarity{Node: 1, Edge: 1, Structural: 1}) {
		t.Errorf("Similarity = %+v, want all 1", r.Similarity)
	}
	if r.Structure != (StructureDiff{}) {
		t.Errorf("Structure = %+v, want zero", r.Structure)
	}
}

func TestCompareBudgetExhausted(t *testing.T) {
	g1, g2 := pair()
	r := Compare(context.Background(), g1, g2, Options{MaxSteps: 1})
	if r.Similarity.Structural != 0 {
		t.Errorf("Structural = %v, want 0 when the search gives up", r.Similarity.Structural)
	}
}

func TestEditDistance(t *testing.T) {
	nodes := map[string]graph.NodeType{"a": graph.Variable, "b": graph.Variable, "c": graph.Variable}
	abc := []string{"a", "b", "c"}
	path := build(nodes, abc, [2]string{"a", "b"}, [2]string{"b", "c"})
	triangle := build(nodes, abc, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"})
	reversed := build(nodes, abc, [2]string{"b", "a"}, [2]string{"c", "b"}, [2]string{"a", "b"})
	loop := build(nodes, []string{"a"}, [2]string{"a", "a"})

	tests := []struct {
		name   string
		g1, g2 *graph.Graph
		want   int
	}{
		{"identical", path, path, 0},
		{"direction ignored", path, reversed, 0},
		{"one edge", path, triangle, 1},
		{"from empty", graph.New(), loop, 2},
		{"to empty", triangle, graph.New(), 6},
		{"relabeled", build(nodes, []string{"c", "b", "a"}, [2]string{"c", "b"}, [2]string{"b", "a"}), path, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EditDistance(context.Background(), tt.g1, tt.g2, 0)
			if err != nil {
				t.Fatalf("EditDistance() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EditDistance() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEditDistanceBudget(t *testing.T) {
	g := graph.New()
	for i := range 12 {
		g.AddNode(graph.Node{ID: string(rune('a' + i)), Type: graph.Variable})
	}
	for i := range 11 {
		g.AddEdge(graph.NewEdge(string(rune('a'+i)), string(rune('a'+i+1)), ""))
	}
	h := g.Clone()
	h.AddEdge(graph.NewEdge("a", "l", ""))

	if _, err := EditDistance(context.Background(), g, h, 1); !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("EditDistance(budget 1) error = %v, want TIMEOUT", err)
	}
}

func TestJaccard(t *testing.T) {
	g1, g2 := pair()
	if got := JaccardNodes(g1, g2); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("JaccardNodes() = %v, want 0.8", got)
	}
	if got := JaccardEdges(graph.New(), graph.New()); got != 1 {
		t.Errorf("JaccardEdges(empty, empty) = %v, want 1", got)
	}
	if got := JaccardNodes(g1, graph.New()); got != 0 {
		t.Errorf("JaccardNodes(g, empty) = %v, want 0", got)
	}
}
