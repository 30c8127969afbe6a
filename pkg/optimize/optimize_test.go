package optimize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

func pairs(g *graph.Graph) [][2]string {
	var out [][2]string
	for _, e := range g.Edges() {
		out = append(out, e.Pair())
	}
	return out
}

func TestMergeSimilarNodes(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Type: graph.PitchClass, Label: "C", Properties: graph.Properties{"x": 1, "y": 1}})
	g.AddNode(graph.Node{ID: "b", Type: graph.PitchClass, Label: "C", Properties: graph.Properties{"y": 2}})
	g.AddNode(graph.Node{ID: "c", Type: graph.Interval, Label: "C"})
	g.AddEdge(graph.NewEdge("a", "b", "same"))
	g.AddEdge(graph.NewEdge("b", "c", "up"))
	g.AddEdge(graph.NewEdge("c", "c", "fixed"))

	out := MergeSimilarNodes(g)
	if out.NodeCount() != g.NodeCount()-1 {
		t.Fatalf("NodeCount() = %d, want %d", out.NodeCount(), g.NodeCount()-1)
	}
	merged, ok := out.Node("merged_a_b")
	if !ok {
		t.Fatalf("NodeIDs() = %v, want merged_a_b", out.NodeIDs())
	}
	if diff := cmp.Diff(graph.Properties{"x": 1, "y": 2}, merged.Properties); diff != "" {
		t.Errorf("merged properties mismatch (-want +got):\n%s", diff)
	}
	want := [][2]string{{"merged_a_b", "c"}, {"c", "c"}}
	if diff := cmp.Diff(want, pairs(out)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 3 {
		t.Error("input graph was modified")
	}
}

func TestRemoveRedundantEdges(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Type: graph.Variable})
	g.AddNode(graph.Node{ID: "b", Type: graph.Variable})
	light := graph.NewEdge("a", "b", "light")
	heavy := graph.NewEdge("a", "b", "heavy")
	heavy.Weight = 2
	rich := graph.NewEdge("a", "b", "rich")
	rich.Weight = 2
	rich.Properties["note"] = "more metadata"
	g.AddEdge(light)
	g.AddEdge(heavy)
	g.AddEdge(rich)
	g.AddEdge(graph.NewEdge("b", "a", "back"))

	once := RemoveRedundantEdges(g)
	var labels []string
	for _, e := range once.Edges() {
		labels = append(labels, e.Label)
	}
	if diff := cmp.Diff([]string{"rich", "back"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	twice := RemoveRedundantEdges(once)
	if diff := cmp.Diff(once.Edges(), twice.Edges()); diff != "" {
		t.Errorf("not idempotent (-once +twice):\n%s", diff)
	}
}

func TestSimplifyTransformationChains(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "C", Type: graph.PitchClass, Label: "C"})
	g.AddNode(graph.Node{ID: "t1", Type: graph.Transformation, Label: "T1"})
	g.AddNode(graph.Node{ID: "t2", Type: graph.Transformation, Label: "T2"})
	g.AddNode(graph.Node{ID: "t3", Type: graph.Transformation, Label: "T3"})
	g.AddNode(graph.Node{ID: "i", Type: graph.Transformation, Label: "I"})
	g.AddEdge(graph.NewEdge("C", "t1", "input"))
	g.AddEdge(graph.NewEdge("t1", "t2", "then"))
	g.AddEdge(graph.NewEdge("t2", "t3", "then"))
	g.AddEdge(graph.NewEdge("i", "C", "acts_on"))

	out := SimplifyTransformationChains(g)
	wantIDs := []string{"C", "trans_T1_T2_T3", "i"}
	if diff := cmp.Diff(wantIDs, out.NodeIDs()); diff != "" {
		t.Fatalf("NodeIDs() mismatch (-want +got):\n%s", diff)
	}
	n, _ := out.Node("trans_T1_T2_T3")
	if n.Label != "T1→T2→T3" {
		t.Errorf("Label = %q", n.Label)
	}
	if diff := cmp.Diff([]string{"t1", "t2", "t3"}, n.Properties["original_chain"]); diff != "" {
		t.Errorf("original_chain mismatch (-want +got):\n%s", diff)
	}
	want := [][2]string{{"C", "trans_T1_T2_T3"}, {"i", "C"}}
	if diff := cmp.Diff(want, pairs(out)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestSimplifyTransformationChainsSameLabels(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a1", "a2", "b1", "b2"} {
		g.AddNode(graph.Node{ID: id, Type: graph.Transformation, Label: "T" + id[1:]})
	}
	g.AddNode(graph.Node{ID: "C", Type: graph.PitchClass, Label: "C"})
	g.AddNode(graph.Node{ID: "E", Type: graph.PitchClass, Label: "E"})
	g.AddEdge(graph.NewEdge("a1", "a2", "then"))
	g.AddEdge(graph.NewEdge("b1", "b2", "then"))
	g.AddEdge(graph.NewEdge("C", "a1", "input"))
	g.AddEdge(graph.NewEdge("E", "b1", "input"))

	out := SimplifyTransformationChains(g)
	wantIDs := []string{"trans_T1_T2", "trans_T1_T2@b1", "C", "E"}
	if diff := cmp.Diff(wantIDs, out.NodeIDs()); diff != "" {
		t.Fatalf("NodeIDs() mismatch (-want +got):\n%s", diff)
	}
	want := [][2]string{{"C", "trans_T1_T2"}, {"E", "trans_T1_T2@b1"}}
	if diff := cmp.Diff(want, pairs(out)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestCompressPaths(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d", "x"} {
		g.AddNode(graph.Node{ID: id, Type: graph.PitchClass, Label: id})
	}
	g.AddEdge(graph.NewEdge("a", "b", ""))
	g.AddEdge(graph.NewEdge("c", "b", ""))
	g.AddEdge(graph.NewEdge("c", "d", ""))

	out := CompressPaths(g)
	if out.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", out.NodeCount(), g.NodeCount())
	}
	edges := out.Edges()
	if len(edges) != 1 {
		t.Fatalf("Edges() = %v, want one compressed edge", edges)
	}
	e := edges[0]
	if e.Source != "a" || e.Target != "d" || e.Label != "compressed_path_4" || e.Weight != 1 {
		t.Errorf("compressed edge = %+v", e)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, e.Properties["original_path"]); diff != "" {
		t.Errorf("original_path mismatch (-want +got):\n%s", diff)
	}
}

func TestCompressPathsKeepsShortRuns(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Type: graph.PitchClass})
	g.AddNode(graph.Node{ID: "b", Type: graph.PitchClass})
	g.AddEdge(graph.NewEdge("a", "b", "keep"))

	out := CompressPaths(g)
	if diff := cmp.Diff(g.Edges(), out.Edges()); diff != "" {
		t.Errorf("edges changed (-want +got):\n%s", diff)
	}
}

func TestOptimize(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Type: graph.PitchClass, Label: "C"})
	g.AddNode(graph.Node{ID: "b", Type: graph.PitchClass, Label: "C"})

	out, err := Optimize(g, StrategyMergeSimilarNodes)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if out.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", out.NodeCount())
	}

	if _, err := Optimize(g); err != nil {
		t.Errorf("Optimize(all) error = %v", err)
	}
	if _, err := Optimize(g, "simplify_transformations"); err != nil {
		t.Errorf("Optimize(alias) error = %v", err)
	}
	if _, err := Optimize(g, StrategyCompressPaths, "shuffle"); !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("Optimize(unknown) error = %v, want INVALID_STRATEGY", err)
	}
}

func TestStrategies(t *testing.T) {
	want := []string{
		"merge_similar_nodes",
		"remove_redundant_edges",
		"simplify_transformation_chains",
		"compress_paths",
	}
	if diff := cmp.Diff(want, Strategies()); diff != "" {
		t.Errorf("Strategies() mismatch (-want +got):\n%s", diff)
	}
}
