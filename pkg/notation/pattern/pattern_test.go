package pattern

import (
	"image"
	"image/color"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

func labelsOf(g *graph.Graph, t graph.NodeType) []string {
	var out []string
	for _, n := range g.NodesOfType(t) {
		out = append(out, n.Label)
	}
	slices.Sort(out)
	return out
}

func TestParseComposition(t *testing.T) {
	g := New().Parse("T1 ∘ T2 maps C to D")

	var composed bool
	for _, e := range g.Edges() {
		if e.Label == "∘" {
			composed = true
			if e.Source != "transformation_T1_0" || e.Target != "transformation_T2_1" {
				t.Errorf("∘ edge = %s -> %s", e.Source, e.Target)
			}
		}
	}
	if !composed {
		t.Errorf("no edge labeled ∘ in %v", g.Edges())
	}

	var prefixed bool
	for _, id := range g.NodeIDs() {
		if strings.HasPrefix(id, "transformation_T1") {
			prefixed = true
		}
	}
	if !prefixed {
		t.Errorf("NodeIDs() = %v, want an id prefixed transformation_T1", g.NodeIDs())
	}
	if got := labelsOf(g, graph.PitchClass); !slices.Equal(got, []string{"C", "D"}) {
		t.Errorf("pitch classes = %v", got)
	}
}

func TestParsePitchClasses(t *testing.T) {
	g := New().Parse("The pitch classes C and G form a perfect fifth interval, " +
		"while D♭ and A♭ form another fifth relationship.")
	want := []string{"A♭", "C", "D♭", "G"}
	if got := labelsOf(g, graph.PitchClass); !slices.Equal(got, want) {
		t.Errorf("pitch classes = %v, want %v", got, want)
	}
}

func TestParseIntervals(t *testing.T) {
	g := New().Parse("A perfect fifth (P5) between C and G, and a major third (M3) between C and E")
	want := []string{"M3", "P5"}
	if got := labelsOf(g, graph.Interval); !slices.Equal(got, want) {
		t.Errorf("intervals = %v, want %v", got, want)
	}
}

func TestParseCompositeTransformation(t *testing.T) {
	g := New().Parse("The transformation T1 maps C to D♭, while T2 maps D♭ to E. " +
		"The composite transformation T2∘T1 maps C directly to E.")
	want := []string{"T1", "T2", "T2∘T1"}
	if got := labelsOf(g, graph.Transformation); !slices.Equal(got, want) {
		t.Fatalf("transformations = %v, want %v", got, want)
	}

	var found bool
	for _, e := range g.Edges() {
		if e.Label == "∘" && slices.Equal(e.Composition, []string{"T2", "T1"}) {
			found = true
			if e.TransformationType != CompositionTransformID {
				t.Errorf("TransformationType = %q", e.TransformationType)
			}
		}
	}
	if !found {
		t.Errorf("no composition edge in %v", g.Edges())
	}
	if n, _ := g.Node("transformation_T2∘T1_2"); g.Degree(n.ID) != 2 {
		t.Errorf("composite degree = %d, want 2", g.Degree(n.ID))
	}
}

func TestParseStructuredTokens(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		typ   graph.NodeType
		label string
	}{
		{"function space", "Let f: A → B be a map", graph.FunctionSpace, "f: A → B"},
		{"ascii arrow", "g:X->Y", graph.FunctionSpace, "g: X → Y"},
		{"circular graph", "a circular graph {A, B, C, D}", graph.CircularGraph, "{A,B,C,D}"},
		{"interval function", "with int(s, t) = 3", graph.IntervalFunction, "int(s,t)"},
		{"interval system", "the IVLS2 of a GIS", graph.IntervalSystem, "IVLS2"},
		{"gis", "the IVLS2 of a GIS", graph.GISSpace, "GIS"},
		{"named transformation", "apply RICH then FLIP", graph.Transformation, "RICH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New().Parse(tt.text)
			if got := labelsOf(g, tt.typ); !slices.Contains(got, tt.label) {
				t.Errorf("%s labels = %v, want %q", tt.typ, got, tt.label)
			}
		})
	}
}

func TestParseCircularGraphMembers(t *testing.T) {
	g := New().Parse("circular graph {A,B,C,D}")
	nodes := g.NodesOfType(graph.CircularGraph)
	if len(nodes) != 1 {
		t.Fatalf("circular graphs = %d, want 1", len(nodes))
	}
	members, _ := nodes[0].Properties["nodes"].([]string)
	if len(members) != 4 {
		t.Errorf("nodes property = %v, want 4 members", nodes[0].Properties["nodes"])
	}
	if len(g.NodesOfType(graph.PitchClass)) != 0 {
		t.Error("members inside braces should not become pitch classes")
	}
}

func TestParseVariableOperands(t *testing.T) {
	g := New().Parse("s ∈ S and x ⊆ y")
	if g.EdgeCount() != 2 {
		t.Fatalf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	got := labelsOf(g, graph.Variable)
	if !slices.Equal(got, []string{"S", "s", "x", "y"}) {
		t.Errorf("variables = %v", got)
	}
}

func TestParseDanglingOperator(t *testing.T) {
	g := New().Parse("∘ alone, and C →")
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestParseIgnoresEmbeddedLetters(t *testing.T) {
	g := New().Parse("The Chord INTERVAL")
	if g.NodeCount() != 0 {
		t.Errorf("NodeIDs() = %v, want none", g.NodeIDs())
	}
}

func TestNetworkConfidence(t *testing.T) {
	tests := []struct {
		nodes, edges []float64
		want         float64
	}{
		{nil, nil, 0},
		{nil, []float64{1}, 0},
		{[]float64{0.5, 1}, nil, 0.75},
		{[]float64{1, 1}, []float64{0.5}, 0.75},
	}
	for _, tt := range tests {
		if got := NetworkConfidence(tt.nodes, tt.edges); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NetworkConfidence(%v, %v) = %v, want %v", tt.nodes, tt.edges, got, tt.want)
		}
	}
}

func TestClassifyLayout(t *testing.T) {
	square := []graph.Point{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}
	tests := []struct {
		name   string
		points []graph.Point
		want   LayoutType
	}{
		{"empty", nil, Complex},
		{"single", []graph.Point{{X: 1, Y: 1}}, Complex},
		{"pair", []graph.Point{{X: 0, Y: 0}, {X: 5, Y: 9}}, Linear},
		{"row", []graph.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, Linear},
		{"diagonal", []graph.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 3, Y: 3}}, Linear},
		{"ring", square, Circular},
		{"scatter", []graph.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 4}}, Complex},
		{"coincident", []graph.Point{{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}}, Complex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyLayout(tt.points); got != tt.want {
				t.Errorf("ClassifyLayout() = %v, want %v", got, tt.want)
			}
		})
	}
}

// drawNetwork renders white discs joined by 2px strokes on a black page.
func drawNetwork(centers [][2]int, edges [][2]int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 400, 400))
	set := func(x, y int) { img.SetGray(x, y, color.Gray{Y: 255}) }
	for _, c := range centers {
		for y := -20; y <= 20; y++ {
			for x := -20; x <= 20; x++ {
				if x*x+y*y <= 400 {
					set(c[0]+x, c[1]+y)
				}
			}
		}
	}
	for _, e := range edges {
		a, b := centers[e[0]], centers[e[1]]
		steps := max(abs(b[0]-a[0]), abs(b[1]-a[1]))
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			x := int(math.Round(float64(a[0]) + t*float64(b[0]-a[0])))
			y := int(math.Round(float64(a[1]) + t*float64(b[1]-a[1])))
			set(x, y)
			set(x+1, y)
			set(x, y+1)
			set(x+1, y+1)
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDetectNetworkCircular(t *testing.T) {
	img := drawNetwork(
		[][2]int{{300, 200}, {200, 300}, {100, 200}, {200, 100}},
		[][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	)
	net := New().DetectNetwork(img)
	if net.LayoutType != Circular {
		t.Errorf("LayoutType = %v, want circular", net.LayoutType)
	}
	if net.Graph.NodeCount() != 4 || net.Graph.EdgeCount() != 4 {
		t.Errorf("graph = %d nodes, %d edges, want 4/4", net.Graph.NodeCount(), net.Graph.EdgeCount())
	}
	if net.Confidence <= 0 || net.Confidence > 1 {
		t.Errorf("Confidence = %v, want (0, 1]", net.Confidence)
	}
}

func TestDetectNetworkLinear(t *testing.T) {
	img := drawNetwork(
		[][2]int{{100, 200}, {200, 200}, {300, 200}},
		[][2]int{{0, 1}, {1, 2}},
	)
	net := New().DetectNetwork(img)
	if net.LayoutType != Linear {
		t.Errorf("LayoutType = %v, want linear", net.LayoutType)
	}
	if net.Graph.NodeCount() != 3 || net.Graph.EdgeCount() != 2 {
		t.Errorf("graph = %d nodes, %d edges, want 3/2", net.Graph.NodeCount(), net.Graph.EdgeCount())
	}
	for _, n := range net.Graph.Nodes() {
		if n.Properties["layout_type"] != "linear" {
			t.Errorf("node %s layout_type = %v", n.ID, n.Properties["layout_type"])
		}
	}
}

func TestDetectNetworkBlank(t *testing.T) {
	net := New().DetectNetwork(image.NewGray(image.Rect(0, 0, 64, 64)))
	if net.LayoutType != Complex || net.Confidence != 0 || net.Graph.NodeCount() != 0 {
		t.Errorf("blank network = %+v", net)
	}
}
