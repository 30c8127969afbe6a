// Package theory extracts music-theory vocabulary from free text.
//
// Four disjoint token classes are recognized, in this priority order:
//
//	set class        [0, 4, 7]
//	interval         P5, M3, m6, A4, d7
//	transformation   T7, I, I5, P, L, R
//	pitch class      C, F#, Bb
//
// A single alternation scans the text left to right, so a span claimed by a
// higher-priority class (the "P" in "P5") is never re-read as a lower one.
// Tokens glued to letters or digits ("Chord", "C5") are rejected, except set
// classes, whose brackets already delimit them ("[0,4,7]T3").
//
// Each unique label yields one node per class. A pitch class immediately
// followed by an interval (only whitespace between) gains a "has_interval"
// edge; a set class immediately followed by a transformation gains a
// "transformed_by" edge.
package theory

import (
	"regexp"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation"
)

// Edge labels produced by the parser.
const (
	HasInterval   = "has_interval"
	TransformedBy = "transformed_by"
)

// Token class names, also used as capture group names.
const (
	ClassSetClass       = "set_class"
	ClassInterval       = "interval"
	ClassTransformation = "transformation"
	ClassPitchClass     = "pitch_class"
)

var tokenRe = regexp.MustCompile(
	`(?P<set_class>\[\d+(?:\s*,\s*\d+)*\])` +
		`|(?P<interval>(?:P|M|m|A|d)\d+)` +
		`|(?P<transformation>T\d+|I\d*|P|L|R)` +
		`|(?P<pitch_class>[A-G](?:#|b)?)`)

var classes = map[string]struct {
	prefix string
	typ    graph.NodeType
}{
	ClassSetClass:       {"sc_", graph.SetClass},
	ClassInterval:       {"int_", graph.Interval},
	ClassTransformation: {"trans_", graph.Transformation},
	ClassPitchClass:     {"pc_", graph.PitchClass},
}

// Token is one recognized span of the input.
type Token struct {
	Class      string
	Text       string
	Start, End int
}

// NodeID returns the graph id the token maps to.
func (t Token) NodeID() string { return classes[t.Class].prefix + t.Text }

// Tokenize returns the recognized tokens of text in source order.
func Tokenize(text string) []Token {
	names := tokenRe.SubexpNames()
	var out []Token
	for _, m := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		for gi := 1; gi < len(names); gi++ {
			s, e := m[2*gi], m[2*gi+1]
			if s < 0 {
				continue
			}
			if names[gi] == ClassSetClass || notation.Bounded(text, s, e) {
				out = append(out, Token{Class: names[gi], Text: text[s:e], Start: s, End: e})
			}
			break
		}
	}
	return out
}

// Parser is the free-text strategy.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

// Parse implements notation.TextParser.
func (p *Parser) Parse(text string) *graph.Graph {
	text = notation.Normalize(text)
	tokens := Tokenize(text)
	g := graph.New()

	for _, tok := range tokens {
		c := classes[tok.Class]
		if g.HasNode(tok.NodeID()) {
			continue
		}
		g.AddNode(graph.Node{
			ID:         tok.NodeID(),
			Type:       c.typ,
			Label:      tok.Text,
			Properties: graph.Properties{"type": tok.Class},
		})
	}

	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1], tokens[i]
		if strings.TrimSpace(text[prev.End:cur.Start]) != "" {
			continue
		}
		switch {
		case prev.Class == ClassPitchClass && cur.Class == ClassInterval:
			g.AddEdge(graph.NewEdge(prev.NodeID(), cur.NodeID(), HasInterval))
		case prev.Class == ClassSetClass && cur.Class == ClassTransformation:
			g.AddEdge(graph.NewEdge(prev.NodeID(), cur.NodeID(), TransformedBy))
		}
	}
	return g
}
