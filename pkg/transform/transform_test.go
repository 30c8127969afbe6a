package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

func labels(g *graph.Graph, t graph.NodeType) []string {
	var out []string
	for _, n := range g.NodesOfType(t) {
		out = append(out, n.Label)
	}
	return out
}

func TestTransposeRoundTrip(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "pc_C", Type: graph.PitchClass, Label: "C"})

	up, err := Apply(g, "T7")
	if err != nil {
		t.Fatalf("Apply(T7) error = %v", err)
	}
	if got := labels(up, graph.PitchClass); !cmp.Equal(got, []string{"G"}) {
		t.Fatalf("T7 labels = %v, want [G]", got)
	}
	back, err := Apply(up, "T5")
	if err != nil {
		t.Fatalf("Apply(T5) error = %v", err)
	}
	if got := labels(back, graph.PitchClass); !cmp.Equal(got, []string{"C"}) {
		t.Errorf("T5 labels = %v, want [C]", got)
	}
	if g.NodeIDs()[0] != "pc_C" {
		t.Error("input graph was modified")
	}
}

func TestTransposeRewritesEdges(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "c", Type: graph.PitchClass, Label: "C", Properties: graph.Properties{"octave": 4}})
	g.AddNode(graph.Node{ID: "e", Type: graph.PitchClass, Label: "E"})
	g.AddNode(graph.Node{ID: "m3", Type: graph.Interval, Label: "M3"})
	g.AddEdge(graph.NewEdge("c", "e", "has_interval"))
	g.AddEdge(graph.NewEdge("e", "m3", "spans"))

	out, err := Apply(g, "T2")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if diff := cmp.Diff([]string{"pc_D", "pc_F#", "m3"}, out.NodeIDs()); diff != "" {
		t.Errorf("NodeIDs() mismatch (-want +got):\n%s", diff)
	}
	var pairs [][2]string
	for _, e := range out.Edges() {
		pairs = append(pairs, e.Pair())
	}
	want := [][2]string{{"pc_D", "pc_F#"}, {"pc_F#", "m3"}}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	d, _ := out.Node("pc_D")
	if d.Properties["octave"] != 4 {
		t.Errorf("properties not copied: %v", d.Properties)
	}
}

func TestInvert(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "e", Type: graph.PitchClass, Label: "E"})
	g.AddNode(graph.Node{ID: "db", Type: graph.PitchClass, Label: "Db"})
	g.AddNode(graph.Node{ID: "h", Type: graph.PitchClass, Label: "H"})

	out, err := Apply(g, "I")
	if err != nil {
		t.Fatalf("Apply(I) error = %v", err)
	}
	if diff := cmp.Diff([]string{"G#", "B", "H"}, labels(out, graph.PitchClass)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if !out.HasNode("h") {
		t.Error("unknown pitch class should keep its id")
	}
}

func TestNeoRiemannian(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "s", Type: graph.SetClass, Label: "[0,4,7]"})
	g.AddNode(graph.Node{ID: "c", Type: graph.PitchClass, Label: "C"})
	g.AddEdge(graph.NewEdge("s", "c", "contains"))

	tests := []struct {
		code, want string
	}{
		{"P", "P([0,4,7])"},
		{"L", "L([0,4,7])"},
		{"R", "R([0,4,7])"},
		{"PL", "L(P([0,4,7]))"},
	}
	for _, tt := range tests {
		out, err := Apply(g, tt.code)
		if err != nil {
			t.Fatalf("Apply(%s) error = %v", tt.code, err)
		}
		n, ok := out.Node("sc_" + tt.want)
		if !ok || n.Label != tt.want {
			t.Errorf("Apply(%s) nodes = %v, want sc_%s", tt.code, out.NodeIDs(), tt.want)
		}
		if out.EdgeCount() != 1 || out.Edges()[0].Source != "sc_"+tt.want {
			t.Errorf("Apply(%s) edges = %v", tt.code, out.Edges())
		}
		if !cmp.Equal(labels(out, graph.PitchClass), []string{"C"}) {
			t.Errorf("Apply(%s) touched pitch classes", tt.code)
		}
	}
}

func TestApplyInvalid(t *testing.T) {
	g := graph.New()
	for _, code := range []string{"", "X3", "Tx", "I1.5", "PQ"} {
		if _, err := Apply(g, code); !errors.Is(err, errors.ErrCodeInvalidTransform) {
			t.Errorf("Apply(%q) error = %v, want INVALID_TRANSFORM", code, err)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		code string
		want []Op
	}{
		{"T", []Op{{Kind: 'T'}}},
		{"T-3", []Op{{Kind: 'T', N: -3}}},
		{"I5", []Op{{Kind: 'I', N: 5}}},
		{"RL", []Op{{Kind: 'R'}, {Kind: 'L'}}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.code)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.code, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.code, diff)
		}
	}
	if s := (Op{Kind: 'T', N: 7}).String(); s != "T7" {
		t.Errorf("String() = %q", s)
	}
}
