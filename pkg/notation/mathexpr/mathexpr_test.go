package mathexpr

import (
	"testing"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

func TestParseIntervalAndFunction(t *testing.T) {
	g := New().Parse("Let int(s, t) = 7 and f: s → t map pitch classes.")

	if got := len(g.NodesOfType(graph.Interval)); got != 1 {
		t.Fatalf("interval nodes = %d, want 1", got)
	}
	trans := g.NodesOfType(graph.Transformation)
	if len(trans) != 1 {
		t.Fatalf("transformation nodes = %d, want 1", len(trans))
	}
	if trans[0].Properties["domain"] != "s" || trans[0].Properties["codomain"] != "t" {
		t.Errorf("domain/codomain = %v/%v", trans[0].Properties["domain"], trans[0].Properties["codomain"])
	}
	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	if edges[0].Source != "trans_0" || edges[0].Target != "int_0" || edges[0].Label != RelationLabel {
		t.Errorf("edge = %+v", edges[0])
	}
}

func TestParseNoContainment(t *testing.T) {
	g := New().Parse("int(a, b) and g: X -> Y")
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 (domain X not in content)", g.EdgeCount())
	}
}

func TestParseSetsAndMatrices(t *testing.T) {
	g := New().Parse("The triad {C, E, G} under [[0, 1], [1, 0]] and [[1, 2], [3]]")

	sets := g.NodesOfType(graph.IntervalSet)
	if len(sets) != 1 {
		t.Fatalf("sets = %d, want 1", len(sets))
	}
	if elems := sets[0].Properties["elements"].([]string); len(elems) != 3 || elems[2] != "G" {
		t.Errorf("elements = %v", elems)
	}
	groups := g.NodesOfType(graph.Group)
	if len(groups) != 1 {
		t.Fatalf("matrices = %d, want 1 (ragged matrix rejected)", len(groups))
	}
	rows := groups[0].Properties["rows"].([][]float64)
	if rows[0][1] != 1 || rows[1][0] != 1 {
		t.Errorf("rows = %v", rows)
	}
}

func TestParseIgnoresEmbeddedInt(t *testing.T) {
	g := New().Parse("print(x) sprint(a, b)")
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
}

func TestParseEmpty(t *testing.T) {
	if g := New().Parse("no notation here"); g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("Parse() = %d nodes, %d edges, want empty", g.NodeCount(), g.EdgeCount())
	}
}

func TestParseDeduplicates(t *testing.T) {
	g := New().Parse("int(s, t) ... int(s, t)")
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}
