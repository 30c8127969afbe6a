package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

func sample() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.Node{ID: "pc_C", Type: graph.PitchClass, Label: "C"})
	g.AddNode(graph.Node{ID: "t", Type: graph.Transformation, Label: "T7"}.At(1, -2))
	e := graph.NewEdge("pc_C", "t", "acts_on")
	g.AddEdge(e)
	iso := graph.NewEdge("t", "pc_C", `say "hi"`)
	iso.Weight = 2
	iso.IsIsomorphism = true
	g.AddEdge(iso)
	return g
}

func TestToDOT(t *testing.T) {
	want := `digraph G {
    "pc_C" [label="C (pitch_class)"];
    "t" [label="T7 (transformation)"];
    "pc_C" -> "t" [label="acts_on",weight="1.0"];
    "t" -> "pc_C" [label="say \"hi\"",weight="2.0"];
}`
	if got := ToDOT(sample()); got != want {
		t.Errorf("ToDOT() =\n%s\nwant\n%s", got, want)
	}
}

func TestToDOTEmpty(t *testing.T) {
	if got := ToDOT(graph.New()); got != "digraph G {\n}" {
		t.Errorf("ToDOT(empty) = %q", got)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct{ in, want string }{
		{`C`, `"C"`},
		{`say "hi"`, `"say \"hi\""`},
		{`dir\`, `"dir\\"`},
		{`a\"b`, `"a\\\"b"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToDOTTrailingBackslash(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: `n\`, Type: graph.Variable, Label: `path\`})
	want := "digraph G {\n    \"n\\\\\" [label=\"path\\\\ (variable)\"];\n}"
	if got := ToDOT(g); got != want {
		t.Errorf("ToDOT() = %q, want %q", got, want)
	}
}

func TestFormatWeight(t *testing.T) {
	tests := map[float64]string{1: "1.0", 2.5: "2.5", 0.1: "0.1", 1e21: "1e+21"}
	for in, want := range tests {
		if got := formatWeight(in); got != want {
			t.Errorf("formatWeight(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestToStyledDOT(t *testing.T) {
	dot := ToStyledDOT(sample(), Options{Scale: 2})
	for _, want := range []string{
		`"pc_C" [label="C", shape=circle, fillcolor="#ff7f7f"];`,
		`"t" [label="T7", shape=box, fillcolor="#7fff7f", pos="2,-4!"];`,
		`"pc_C" -> "t" [label="acts_on"];`,
		`"t" -> "pc_C" [label="say \"hi\"", style=dashed, penwidth=2];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToStyledDOT() missing %s\n%s", want, dot)
		}
	}
}

func TestStyleFor(t *testing.T) {
	if got := StyleFor(graph.Variable); got != DefaultStyle {
		t.Errorf("StyleFor(variable) = %+v, want default", got)
	}
	if got := StyleFor(graph.Group).Shape; got != "triangle" {
		t.Errorf("StyleFor(group).Shape = %q", got)
	}
}

func TestEngineFor(t *testing.T) {
	if got := EngineFor(sample()); got != EngineNeato {
		t.Errorf("EngineFor(positioned) = %q, want neato", got)
	}
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Type: graph.Variable})
	if got := EngineFor(g); got != EngineDot {
		t.Errorf("EngineFor(unpositioned) = %q, want dot", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}
