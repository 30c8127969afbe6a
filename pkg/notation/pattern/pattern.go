// Package pattern detects transformation-network notation.
//
// Text input is scanned for a fixed vocabulary of operator glyphs (∘ ⊗ ⊕ → ⊆ ...)
// and symbolic tokens (transformation labels, GIS vocabulary, pitch classes,
// intervals, function signatures, circular graphs). Every unique token becomes
// one node and every binary operator occurrence becomes one directed edge from
// the token on its left to the token on its right, labeled with the glyph.
//
// Raster input is handed to the diagram pipeline; the detected blobs are then
// classified into a layout family and the per-detection confidences are
// averaged into a network confidence. See [Detector.DetectNetwork].
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation"
)

// Operators lists the binary operator glyphs, in the order they are documented.
var Operators = []string{
	"∘", "⊗", "⊕", "→", "⟶", "↦", "⊆", "⊇", "≅", "≃", "∼",
	"∈", "∉", "⊂", "⊃", "∪", "∩", "×", "⋈", "≤", "≥",
}

// TransformationLabels lists the named transformations recognized as words.
var TransformationLabels = []string{
	"RICH", "TCH", "TRAN", "INT", "STAB", "FLIP", "ROT",
}

// Token classes, also used as capture group names.
const (
	ClassFunctionSpace     = "function_space"
	ClassCircularGraph     = "circular_graph"
	ClassIntervalFunction  = "interval_function"
	ClassComposite         = "composite"
	ClassIntervalSystem    = "interval_system"
	ClassGISSpace          = "gis_space"
	ClassInterval          = "interval"
	ClassTransformation    = "transformation"
	ClassPitchClass        = "pitch_class"
	ClassOperator          = "operator"
	ClassVariable          = "variable"
)

// Edge metadata produced for compositions.
const (
	ComposedOfLabel        = "composed_of"
	CompositionTransformID = "composition"
)

var classTypes = map[string]graph.NodeType{
	ClassFunctionSpace:    graph.FunctionSpace,
	ClassCircularGraph:    graph.CircularGraph,
	ClassIntervalFunction: graph.IntervalFunction,
	ClassComposite:        graph.Transformation,
	ClassIntervalSystem:   graph.IntervalSystem,
	ClassGISSpace:         graph.GISSpace,
	ClassInterval:         graph.Interval,
	ClassTransformation:   graph.Transformation,
	ClassPitchClass:       graph.PitchClass,
	ClassVariable:         graph.Variable,
}

var (
	transLabel = `(?:` + strings.Join(TransformationLabels, "|") + `|T\d+|S\d+|I\d*|P|L|R)`

	tokenRe = regexp.MustCompile(
		`(?P<function_space>\w+\s*:\s*\w+\s*(?:→|⟶|->)\s*\w+)` +
			`|(?P<circular_graph>circular\s+graph\s*\{[^{}]*\})` +
			`|(?P<interval_function>int\(\s*\w+\s*,\s*\w+\s*\))` +
			`|(?P<composite>` + transLabel + `(?:∘` + transLabel + `)+)` +
			`|(?P<interval_system>IVLS\d*)` +
			`|(?P<gis_space>GIS)` +
			`|(?P<interval>(?:P|M|m|A|d)\d+)` +
			`|(?P<transformation>` + transLabel + `)` +
			`|(?P<pitch_class>[A-G](?:#|b|♯|♭)?)` +
			`|(?P<operator>` + operatorAlternation() + `)`)

	signatureRe = regexp.MustCompile(`^(\w+)\s*:\s*(\w+)\s*(?:→|⟶|->)\s*(\w+)$`)
	bracesRe    = regexp.MustCompile(`\{([^{}]*)\}`)
	wordLeftRe  = regexp.MustCompile(`(\w+)\s*$`)
	wordRightRe = regexp.MustCompile(`^\s*(\w+)`)
)

func operatorAlternation() string {
	quoted := make([]string, len(Operators))
	for i, op := range Operators {
		quoted[i] = regexp.QuoteMeta(op)
	}
	return strings.Join(quoted, "|")
}

// Token is one recognized span of the input.
type Token struct {
	Class      string
	Text       string
	Start, End int
}

// Tokenize returns the recognized tokens and operators of text in source order.
func Tokenize(text string) []Token {
	names := tokenRe.SubexpNames()
	var out []Token
	for _, m := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		for gi := 1; gi < len(names); gi++ {
			s, e := m[2*gi], m[2*gi+1]
			if s < 0 {
				continue
			}
			if names[gi] == ClassOperator || notation.Bounded(text, s, e) {
				out = append(out, Token{Class: names[gi], Text: text[s:e], Start: s, End: e})
			}
			break
		}
	}
	return out
}

// Label returns the display label of a token. Whitespace is squeezed out of
// structured tokens so that "int(s, t)" and "int(s,t)" denote the same node.
func (t Token) Label() string {
	switch t.Class {
	case ClassFunctionSpace:
		m := signatureRe.FindStringSubmatch(t.Text)
		return fmt.Sprintf("%s: %s → %s", m[1], m[2], m[3])
	case ClassCircularGraph:
		return "{" + strings.Join(circularMembers(t.Text), ",") + "}"
	case ClassIntervalFunction:
		return strings.Join(strings.Fields(t.Text), "")
	}
	return t.Text
}

func (t Token) properties() graph.Properties {
	p := graph.Properties{"type": t.Class, "span": []int{t.Start, t.End}}
	switch t.Class {
	case ClassFunctionSpace:
		m := signatureRe.FindStringSubmatch(t.Text)
		p["name"], p["domain"], p["codomain"] = m[1], m[2], m[3]
	case ClassCircularGraph:
		p["nodes"] = circularMembers(t.Text)
	case ClassComposite:
		p["composition"] = strings.Split(t.Text, "∘")
	}
	return p
}

func circularMembers(text string) []string {
	m := bracesRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(m[1], ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// textBuilder assigns ids of the form <type>_<label>_<k>, k counting per type.
type textBuilder struct {
	g      *graph.Graph
	ids    map[string]string
	counts map[graph.NodeType]int
}

func (b *textBuilder) node(class, label string, props graph.Properties) string {
	typ := classTypes[class]
	key := string(typ) + "\x00" + label
	if id, ok := b.ids[key]; ok {
		return id
	}
	id := fmt.Sprintf("%s_%s_%d", typ, strings.ReplaceAll(label, " ", ""), b.counts[typ])
	b.counts[typ]++
	b.ids[key] = id
	if props == nil {
		props = graph.Properties{"type": class}
	}
	b.g.AddNode(graph.Node{ID: id, Type: typ, Label: label, Properties: props})
	return id
}

// Detector is the combined pattern and layout strategy.
type Detector struct {
	// Diagram runs the raster stage; nil uses diagram defaults.
	Diagram ImageDetector
}

// New returns a Detector with default raster options.
func New() *Detector { return &Detector{} }

// Parse implements notation.TextParser.
func (d *Detector) Parse(text string) *graph.Graph {
	text = notation.Normalize(text)
	tokens := Tokenize(text)
	b := &textBuilder{g: graph.New(), ids: map[string]string{}, counts: map[graph.NodeType]int{}}

	nodeIDs := make([]string, len(tokens))
	for i, tok := range tokens {
		switch tok.Class {
		case ClassOperator:
			continue
		case ClassComposite:
			nodeIDs[i] = b.composite(tok)
		default:
			nodeIDs[i] = b.node(tok.Class, tok.Label(), tok.properties())
		}
	}

	for i, tok := range tokens {
		if tok.Class != ClassOperator {
			continue
		}
		src := b.operand(text, tokens, nodeIDs, i, -1)
		if src == "" {
			continue
		}
		dst := b.operand(text, tokens, nodeIDs, i, +1)
		if dst == "" {
			continue
		}
		e := graph.NewEdge(src, dst, tok.Text)
		e.Properties["operator"] = tok.Text
		if tok.Text == "∘" {
			e.TransformationType = CompositionTransformID
		}
		b.g.AddEdge(e)
	}
	return b.g
}

// composite adds a node for an unspaced composition such as T2∘T1 together
// with its factors, the ∘ edges between consecutive factors and a
// composed_of edge from the composite to each factor.
func (b *textBuilder) composite(tok Token) string {
	factors := strings.Split(tok.Text, "∘")
	id := b.node(ClassComposite, tok.Text, tok.properties())
	factorIDs := make([]string, len(factors))
	for i, f := range factors {
		factorIDs[i] = b.node(ClassTransformation, f, nil)
	}
	for i := 1; i < len(factorIDs); i++ {
		e := graph.NewEdge(factorIDs[i-1], factorIDs[i], "∘")
		e.Properties["operator"] = "∘"
		e.TransformationType = CompositionTransformID
		e.Composition = factors
		b.g.AddEdge(e)
	}
	for _, fid := range factorIDs {
		e := graph.NewEdge(id, fid, ComposedOfLabel)
		e.Composition = factors
		b.g.AddEdge(e)
	}
	return id
}

// operand resolves the node flanking the operator at tokens[i] on side dir
// (-1 left, +1 right). The neighboring token is used when only whitespace
// or brackets separate it from the operator; otherwise a bare adjacent word becomes a
// variable node.
func (b *textBuilder) operand(text string, tokens []Token, ids []string, i, dir int) string {
	op := tokens[i]
	if j := i + dir; j >= 0 && j < len(tokens) && tokens[j].Class != ClassOperator {
		var gap string
		if dir < 0 {
			gap = text[tokens[j].End:op.Start]
		} else {
			gap = text[op.End:tokens[j].Start]
		}
		if strings.Trim(gap, " \t\r\n()[]") == "" {
			return ids[j]
		}
	}
	var m []string
	if dir < 0 {
		m = wordLeftRe.FindStringSubmatch(text[:op.Start])
	} else {
		m = wordRightRe.FindStringSubmatch(text[op.End:])
	}
	if m == nil {
		return ""
	}
	return b.node(ClassVariable, m[1], nil)
}
