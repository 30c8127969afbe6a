// Package outline builds graphs from indented outlines.
//
// Each non-empty line becomes a node. Its depth is the number of leading
// whitespace characters, and its parent is the nearest preceding line with a
// smaller depth. Bullets ("•", "-", "*"), list numbering ("1.", "2)", "3]") and
// hierarchical numbering ("1.2.3") are stripped before classification. A bare
// leading number with no punctuation ("12 tone row") is content.
//
// Lines are classified as chords (set_class), transformations, or generic
// concepts (interval). Every parent/child relation becomes a "contains" edge.
package outline

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation"
)

// ContainsLabel labels parent -> child edges.
const ContainsLabel = "contains"

var (
	markers = []*regexp.Regexp{
		regexp.MustCompile(`^\s*[•\-\*]\s+`),
		regexp.MustCompile(`^\s*\d+[\.)\]]\s+`),
		regexp.MustCompile(`^\s*(?:\d+\.)+\d+\.?\s+`),
	}
	chordRe     = regexp.MustCompile(`^[A-G](?:#|b|♯|♭)?(?:maj|min|m|dim|aug|sus|\+|°)?\d*$`)
	chordWordRe = regexp.MustCompile(`^(?i:major|minor|dim|diminished|aug|augmented|triad|chord|seventh)$`)
	transRe     = regexp.MustCompile(`^(?:T\d+|I\d*|P\d*|L\d*|R\d*)$`)
)

// Kind is the semantic classification of an outline line.
type Kind string

const (
	KindChord          Kind = "chord"
	KindTransformation Kind = "transformation"
	KindConcept        Kind = "concept"
)

// Classify returns the semantic kind of a cleaned outline line.
func Classify(content string) Kind {
	words := strings.FieldsFunc(content, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ':' || r == '(' || r == ')'
	})
	if len(words) == 0 {
		return KindConcept
	}
	if chordRe.MatchString(words[0]) {
		rest := words[1:]
		if len(rest) == 0 || chordWordRe.MatchString(rest[0]) {
			return KindChord
		}
	}
	for _, w := range words {
		if transRe.MatchString(w) {
			return KindTransformation
		}
	}
	return KindConcept
}

// NodeType maps a kind onto the graph node type used for it.
func (k Kind) NodeType() graph.NodeType {
	switch k {
	case KindChord:
		return graph.SetClass
	case KindTransformation:
		return graph.Transformation
	default:
		return graph.Interval
	}
}

// Clean strips list markers and surrounding whitespace from a line.
func Clean(line string) string {
	for _, re := range markers {
		line = re.ReplaceAllString(line, "")
	}
	return strings.TrimSpace(line)
}

// Depth returns the count of leading whitespace characters in line.
func Depth(line string) int {
	d := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		d++
	}
	return d
}

// Parser is the outline strategy.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

type frame struct {
	id    string
	depth int
}

// Parse implements notation.TextParser.
func (p *Parser) Parse(text string) *graph.Graph {
	text = notation.Normalize(text)
	g := graph.New()
	stack := []frame{}
	i := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		content := Clean(line)
		if content == "" {
			continue
		}
		depth := Depth(line)
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}

		kind := Classify(content)
		id := fmt.Sprintf("node_%d", i)
		i++
		props := graph.Properties{"kind": string(kind), "depth": depth}
		if kind == KindConcept {
			props["concept"] = true
		}
		g.AddNode(graph.Node{ID: id, Type: kind.NodeType(), Label: content, Properties: props})

		if len(stack) > 0 {
			e := graph.NewEdge(stack[len(stack)-1].id, id, ContainsLabel)
			e.Properties["hierarchical"] = true
			g.AddEdge(e)
		}
		stack = append(stack, frame{id: id, depth: depth})
	}
	return g
}
