// Package transform applies group-theoretic operations to music graphs.
//
// A transform code names one operation:
//
//	T<n>  transpose every pitch class up n semitones
//	I<n>  invert every pitch class about 0, then transpose by n
//	P     parallel
//	L     leading-tone exchange
//	R     relative
//
// T and I act on pitch_class nodes; P, L and R act on set_class nodes. A run
// of neo-Riemannian letters such as "PLR" applies each letter left to right.
// Every operation returns a new graph whose renamed nodes get fresh ids
// (pc_<label> or sc_<label>) and whose edges are rewritten to follow them.
package transform

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/pitch"
)

// Op is a parsed transform code.
type Op struct {
	Kind byte // 'T', 'I', 'P', 'L' or 'R'
	N    int  // semitone argument of T and I
}

// String returns the canonical code for op.
func (op Op) String() string {
	if op.Kind == 'T' || op.Kind == 'I' {
		return string(op.Kind) + strconv.Itoa(op.N)
	}
	return string(op.Kind)
}

// Parse splits a transform code into its operations. T and I take an optional
// integer suffix that defaults to 0.
func Parse(code string) ([]Op, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New(errors.ErrCodeInvalidTransform, "empty transform code")
	}
	switch kind := code[0]; kind {
	case 'T', 'I':
		n := 0
		if rest := code[1:]; rest != "" {
			v, err := strconv.Atoi(rest)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidTransform, err, "transform %q: bad semitone count", code)
			}
			n = v
		}
		return []Op{{Kind: kind, N: n}}, nil
	case 'P', 'L', 'R':
		ops := make([]Op, 0, len(code))
		for i := 0; i < len(code); i++ {
			switch code[i] {
			case 'P', 'L', 'R':
				ops = append(ops, Op{Kind: code[i]})
			default:
				return nil, errors.New(errors.ErrCodeInvalidTransform, "transform %q: unexpected %q", code, code[i:i+1])
			}
		}
		return ops, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidTransform, "unknown transform %q", code)
}

// Apply parses code and applies it to a copy of g.
func Apply(g *graph.Graph, code string) (*graph.Graph, error) {
	ops, err := Parse(code)
	if err != nil {
		return nil, err
	}
	out := g
	for _, op := range ops {
		out = ApplyOp(out, op)
	}
	return out, nil
}

// ApplyOp applies a single operation to a copy of g.
func ApplyOp(g *graph.Graph, op Op) *graph.Graph {
	switch op.Kind {
	case 'T':
		return Transpose(g, op.N)
	case 'I':
		return Invert(g, op.N)
	case 'P':
		return Parallel(g)
	case 'L':
		return LeadingTone(g)
	case 'R':
		return Relative(g)
	}
	return g.Clone()
}

// Transpose returns a copy of g with every pitch class moved up n semitones.
func Transpose(g *graph.Graph, n int) *graph.Graph {
	return relabelPitches(g, func(label string) (string, bool) { return pitch.Transpose(label, n) })
}

// Invert returns a copy of g with every pitch class inverted and moved up n
// semitones.
func Invert(g *graph.Graph, n int) *graph.Graph {
	return relabelPitches(g, func(label string) (string, bool) { return pitch.Invert(label, n) })
}

// Parallel wraps every set-class label in P(...).
func Parallel(g *graph.Graph) *graph.Graph { return wrapSetClasses(g, "P") }

// LeadingTone wraps every set-class label in L(...).
func LeadingTone(g *graph.Graph) *graph.Graph { return wrapSetClasses(g, "L") }

// Relative wraps every set-class label in R(...).
func Relative(g *graph.Graph) *graph.Graph { return wrapSetClasses(g, "R") }

func relabelPitches(g *graph.Graph, f func(string) (string, bool)) *graph.Graph {
	return relabel(g, graph.PitchClass, "pc_", f)
}

func wrapSetClasses(g *graph.Graph, name string) *graph.Graph {
	return relabel(g, graph.SetClass, "sc_", func(label string) (string, bool) {
		return name + "(" + label + ")", true
	})
}

// relabel rewrites the label and id of every node of type t for which f
// succeeds. Nodes that map to an existing id are merged by upsert, and edges
// follow their endpoints to the new ids.
func relabel(g *graph.Graph, t graph.NodeType, prefix string, f func(string) (string, bool)) *graph.Graph {
	out := graph.New()
	rename := make(map[string]string)
	for _, n := range g.Nodes() {
		n = n.Clone()
		if n.Type == t {
			if label, ok := f(n.Label); ok {
				rename[n.ID] = prefix + label
				n.ID = prefix + label
				n.Label = label
			}
		}
		out.AddNode(n)
	}
	for _, e := range g.Edges() {
		e = e.Clone()
		if id, ok := rename[e.Source]; ok {
			e.Source = id
		}
		if id, ok := rename[e.Target]; ok {
			e.Target = id
		}
		out.AddEdge(e)
	}
	return out
}
