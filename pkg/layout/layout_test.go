package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func positions(t *testing.T, g *graph.Graph) map[string]graph.Point {
	t.Helper()
	out := make(map[string]graph.Point)
	for _, n := range g.Nodes() {
		if n.Position != nil {
			out[n.ID] = *n.Position
		}
	}
	return out
}

func apply(t *testing.T, g *graph.Graph, name string, p Params) map[string]graph.Point {
	t.Helper()
	out, err := Apply(g, name, p)
	if err != nil {
		t.Fatalf("Apply(%s) error = %v", name, err)
	}
	for _, n := range g.Nodes() {
		if n.Position != nil {
			t.Fatalf("Apply(%s) modified the input graph", name)
		}
	}
	return positions(t, out)
}

func TestHierarchicalRoots(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(graph.Node{ID: id, Type: graph.Variable})
	}
	got := apply(t, g, Hierarchical, Params{"node_width": 1})
	want := map[string]graph.Point{"a": {X: -1}, "b": {X: 0}, "c": {X: 1}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestHierarchicalLevels(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"root", "left", "right", "leaf", "x", "y"} {
		g.AddNode(graph.Node{ID: id, Type: graph.Variable})
	}
	g.AddEdge(graph.NewEdge("root", "left", ""))
	g.AddEdge(graph.NewEdge("root", "right", ""))
	g.AddEdge(graph.NewEdge("left", "leaf", ""))
	g.AddEdge(graph.NewEdge("right", "leaf", ""))
	g.AddEdge(graph.NewEdge("x", "y", ""))
	g.AddEdge(graph.NewEdge("y", "x", ""))

	got := apply(t, g, Hierarchical, Params{"level_height": "2"})
	want := map[string]graph.Point{
		"root":  {X: -0.5, Y: 0},
		"x":     {X: 0.5, Y: 0},
		"left":  {X: -1, Y: -2},
		"right": {X: 0, Y: -2},
		"y":     {X: 1, Y: -2},
		"leaf":  {X: 0, Y: -4},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestCircleOfFifths(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "c", Type: graph.PitchClass, Label: "C"})
	g.AddNode(graph.Node{ID: "a", Type: graph.PitchClass, Label: "A"})
	g.AddNode(graph.Node{ID: "gb", Type: graph.PitchClass, Label: "Gb"})
	g.AddNode(graph.Node{ID: "h", Type: graph.PitchClass, Label: "H"})
	g.AddNode(graph.Node{ID: "t", Type: graph.Transformation, Label: "T1"})

	got := apply(t, g, CircleOfFifths, Params{"radius": 2.0})
	want := map[string]graph.Point{
		"c":  {X: 2, Y: 0},
		"a":  {X: 0, Y: 2},
		"gb": {X: -2, Y: 0},
		"h":  {X: 0, Y: 0},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTonnetz(t *testing.T) {
	g := graph.New()
	for _, pc := range []string{"C", "G", "Db", "F"} {
		g.AddNode(graph.Node{ID: pc, Type: graph.PitchClass, Label: pc})
	}
	g.AddNode(graph.Node{ID: "P", Type: graph.Transformation, Label: "P"})

	got := apply(t, g, Tonnetz, Params{"scale": 2})
	want := map[string]graph.Point{
		"C":  {X: 0, Y: 0},
		"G":  {X: 2, Y: 0},
		"Db": {X: 3, Y: -1},
		"F":  {X: -1, Y: -1},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if len(TonnetzCoords) != 12 {
		t.Errorf("TonnetzCoords covers %d pitch classes, want 12", len(TonnetzCoords))
	}
}

func network() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.Node{ID: "C", Type: graph.PitchClass, Label: "C"})
	g.AddNode(graph.Node{ID: "E", Type: graph.PitchClass, Label: "E"})
	g.AddNode(graph.Node{ID: "T4", Type: graph.Transformation, Label: "T4"})
	g.AddNode(graph.Node{ID: "s", Type: graph.SetClass, Label: "[0,4]"})
	g.AddNode(graph.Node{ID: "v", Type: graph.Variable, Label: "x"})
	g.AddEdge(graph.NewEdge("C", "T4", ""))
	g.AddEdge(graph.NewEdge("T4", "E", ""))
	return g
}

func TestTransformationNetworkHierarchical(t *testing.T) {
	got := apply(t, network(), TransformationNetwork, nil)
	want := map[string]graph.Point{
		"C":  {X: -0.5, Y: 0},
		"E":  {X: 0.5, Y: 0},
		"T4": {X: 0, Y: 1},
		"s":  {X: 0, Y: 2},
		"v":  {X: 0, Y: 3},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformationNetworkCircular(t *testing.T) {
	got := apply(t, network(), TransformationNetwork, Params{"hierarchical": false, "radius": 2})
	want := map[string]graph.Point{
		"C":  {X: 2, Y: 0},
		"E":  {X: -2, Y: 0},
		"T4": {X: 1, Y: 0},
		"s":  {X: -2, Y: -2},
		"v":  {X: -1.4, Y: -2},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	got = apply(t, network(), TransformationNetwork, Params{"layout_style": "circular", "center_transformations": false})
	if pt := got["T4"]; pt.Y != -1 || math.Abs(pt.X-(-1)) > 1e-9 {
		t.Errorf("uncentered T4 = %+v, want first grid cell", pt)
	}
}

func TestGISNetwork(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "S", Type: graph.GISSpace})
	g.AddNode(graph.Node{ID: "n1", Type: graph.NetworkNode})
	g.AddNode(graph.Node{ID: "n2", Type: graph.NetworkNode})
	g.AddNode(graph.Node{ID: "t", Type: graph.Transformation})
	g.AddNode(graph.Node{ID: "other", Type: graph.Variable})

	got := apply(t, g, GISNetwork, nil)
	want := map[string]graph.Point{
		"S":  {X: 0, Y: 0},
		"n1": {X: 0, Y: -1.5},
		"n2": {X: 1.2, Y: -1.5},
		"t":  {X: 0, Y: -3},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func isoGraph() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a1", Type: graph.NetworkNode})
	g.AddNode(graph.Node{ID: "a2", Type: graph.NetworkNode})
	g.AddNode(graph.Node{ID: "b1", Type: graph.NetworkNode})
	g.AddNode(graph.Node{ID: "b2", Type: graph.NetworkNode})
	g.AddNode(graph.Node{ID: "S", Type: graph.GISSpace})
	g.AddEdge(graph.NewEdge("a1", "a2", "T3"))
	g.AddEdge(graph.NewEdge("b1", "b2", "T3"))
	iso := graph.NewEdge("a1", "b1", "isomorphic")
	iso.IsIsomorphism = true
	g.AddEdge(iso)
	return g
}

func TestSplitNetworks(t *testing.T) {
	want := [][]string{{"S"}, {"a1", "a2"}, {"b1", "b2"}}
	if diff := cmp.Diff(want, SplitNetworks(isoGraph())); diff != "" {
		t.Errorf("SplitNetworks() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsomorphicNetwork(t *testing.T) {
	g := isoGraph()
	out, err := Apply(g, IsomorphicNetwork, Params{"spacing": 1})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := map[string]graph.Point{
		"S":  {X: 0, Y: 3},
		"a1": {X: 2.5, Y: 3},
		"a2": {X: 3.5, Y: 3},
		"b1": {X: 5.5, Y: 4.5},
		"b2": {X: 6.5, Y: 4.5},
	}
	if diff := cmp.Diff(want, positions(t, out), approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	for _, e := range out.Edges() {
		if e.IsIsomorphism && (e.Properties["style"] != "dashed" || e.Weight != 2) {
			t.Errorf("isomorphism edge not marked: %+v", e)
		}
		if !e.IsIsomorphism && e.Properties["style"] != nil {
			t.Errorf("plain edge marked: %+v", e)
		}
	}
	for _, e := range g.Edges() {
		if e.Properties["style"] != nil {
			t.Error("input edge was modified")
		}
	}
}

func TestApplyUnknown(t *testing.T) {
	if _, err := Apply(graph.New(), "spiral", nil); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Apply(spiral) error = %v, want INVALID_LAYOUT", err)
	}
	want := []string{"circle_of_fifths", "gis_network", "hierarchical", "isomorphic_network", "tonnetz", "transformation_network"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams([]string{"radius=2.5", "hierarchical=false"})
	if err != nil {
		t.Fatalf("ParseParams() error = %v", err)
	}
	if p.Float("radius", 1) != 2.5 || p.Bool("hierarchical", true) {
		t.Errorf("ParseParams() = %v", p)
	}
	if p.Float("missing", 7) != 7 {
		t.Error("default not used")
	}
	if _, err := ParseParams([]string{"radius"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseParams(bad) error = %v", err)
	}
}
