package theory

import (
	"testing"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

func TestParseFifth(t *testing.T) {
	g := New().Parse("C and G form a fifth, P5")

	pcs := g.NodesOfType(graph.PitchClass)
	if len(pcs) != 2 || pcs[0].Label != "C" || pcs[1].Label != "G" {
		t.Errorf("pitch classes = %v, want [C G]", pcs)
	}
	ivs := g.NodesOfType(graph.Interval)
	if len(ivs) != 1 || ivs[0].Label != "P5" {
		t.Errorf("intervals = %v, want [P5]", ivs)
	}
	if n := len(g.NodesOfType(graph.Transformation)); n != 0 {
		t.Errorf("transformations = %d, want 0 (P of P5 is not a transformation)", n)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestParseRelationships(t *testing.T) {
	g := New().Parse("C M3 rises to E; the triad [0, 4, 7] T5 lands on F. Again C M3.")

	want := map[[2]string]string{
		{"pc_C", "int_M3"}:           HasInterval,
		{"sc_[0, 4, 7]", "trans_T5"}: TransformedBy,
	}
	edges := g.Edges()
	if len(edges) != 3 {
		t.Fatalf("edges = %d, want 3 (one per adjacency, repeated pair kept)", len(edges))
	}
	for _, e := range edges {
		if want[e.Pair()] != e.Label {
			t.Errorf("unexpected edge %v %q", e.Pair(), e.Label)
		}
	}
	if got := len(g.NodesOfType(graph.PitchClass)); got != 3 {
		t.Errorf("pitch classes = %d, want 3 (C, E, F)", got)
	}
}

func TestParseGluedSetClass(t *testing.T) {
	tests := []struct {
		text string
		set  string
	}{
		{"[0,4,7]T3", "sc_[0,4,7]"},
		{"[0,4,7] T3", "sc_[0,4,7]"},
		{"the triad ([0, 3, 7]T5) again", "sc_[0, 3, 7]"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			g := New().Parse(tt.text)
			if !g.HasNode(tt.set) {
				t.Errorf("NodeIDs() = %v, missing %s", g.NodeIDs(), tt.set)
			}
			edges := g.Edges()
			if len(edges) != 1 || edges[0].Source != tt.set || edges[0].Label != TransformedBy {
				t.Errorf("edges = %v, want one %s edge from %s", edges, TransformedBy, tt.set)
			}
		})
	}
}

func TestParseRejectsEmbeddedTokens(t *testing.T) {
	g := New().Parse("Chords in Bach. Cm7 and D5 are glued.")
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0, got %v", g.NodeCount(), g.NodeIDs())
	}
}

func TestParseNotAdjacent(t *testing.T) {
	g := New().Parse("C, M3")
	if g.EdgeCount() != 0 {
		t.Errorf("punctuation between tokens must block the edge, got %d edges", g.EdgeCount())
	}
}

func TestTokenizePriority(t *testing.T) {
	toks := Tokenize("I5 P L R Bb [0,3,7] d7")
	want := []string{ClassTransformation, ClassTransformation, ClassTransformation,
		ClassTransformation, ClassPitchClass, ClassSetClass, ClassInterval}
	if len(toks) != len(want) {
		t.Fatalf("Tokenize() = %v", toks)
	}
	for i, tok := range toks {
		if tok.Class != want[i] {
			t.Errorf("token %d %q class = %s, want %s", i, tok.Text, tok.Class, want[i])
		}
	}
}
