// Package mathexpr extracts graphs from symbolic mathematical notation.
//
// Recognized forms:
//
//	int(s, t)          interval expression      -> interval node
//	f: A → B           function arrow (or ->)   -> transformation node
//	{C, E, G}          set braces               -> interval_set node
//	[[1, 0], [0, 1]]   bracketed matrix         -> group node
//
// A transformation is linked to every interval whose raw content contains the
// transformation's domain string. The containment test is textual only.
package mathexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation"
)

var (
	intervalRe = regexp.MustCompile(`\bint\(([\w\s,]+)\)`)
	functionRe = regexp.MustCompile(`\b(\w+)\s*:\s*(\w+)\s*(?:→|->)\s*(\w+)`)
	setRe      = regexp.MustCompile(`\{([^{}]+)\}`)
	matrixRe   = regexp.MustCompile(`\[\[([-\d\s,.\[\]]+?)\]\]`)
)

// RelationLabel labels transformation -> interval edges.
const RelationLabel = "mathematical_relation"

// Parser is the symbolic-math strategy. The zero value is ready to use.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

// Parse implements notation.TextParser.
func (p *Parser) Parse(text string) *graph.Graph {
	text = notation.Normalize(text)
	g := graph.New()

	intervals := p.intervals(g, text)
	transforms := p.functions(g, text)
	p.sets(g, text)
	p.matrices(g, text)

	for _, t := range transforms {
		domain, _ := t.Properties["domain"].(string)
		for _, iv := range intervals {
			content, _ := iv.Properties["content"].(string)
			if domain != "" && strings.Contains(content, domain) {
				e := graph.NewEdge(t.ID, iv.ID, RelationLabel)
				e.Properties["type"] = "math_dependency"
				g.AddEdge(e)
			}
		}
	}
	return g
}

func (p *Parser) intervals(g *graph.Graph, text string) []graph.Node {
	var out []graph.Node
	seen := map[string]bool{}
	for _, m := range intervalRe.FindAllStringSubmatchIndex(text, -1) {
		content := strings.TrimSpace(text[m[2]:m[3]])
		if seen[content] {
			continue
		}
		seen[content] = true
		n := graph.Node{
			ID:    fmt.Sprintf("int_%d", len(out)),
			Type:  graph.Interval,
			Label: "int(" + content + ")",
			Properties: graph.Properties{
				"content": content,
				"args":    splitList(content),
				"span":    []int{m[0], m[1]},
			},
		}
		g.AddNode(n)
		out = append(out, n)
	}
	return out
}

func (p *Parser) functions(g *graph.Graph, text string) []graph.Node {
	var out []graph.Node
	seen := map[string]bool{}
	for _, m := range functionRe.FindAllStringSubmatchIndex(text, -1) {
		name, domain, codomain := text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]]
		label := fmt.Sprintf("%s: %s → %s", name, domain, codomain)
		if seen[label] {
			continue
		}
		seen[label] = true
		n := graph.Node{
			ID:    fmt.Sprintf("trans_%d", len(out)),
			Type:  graph.Transformation,
			Label: label,
			Properties: graph.Properties{
				"name":     name,
				"domain":   domain,
				"codomain": codomain,
				"span":     []int{m[0], m[1]},
			},
		}
		g.AddNode(n)
		out = append(out, n)
	}
	return out
}

func (p *Parser) sets(g *graph.Graph, text string) {
	i := 0
	seen := map[string]bool{}
	for _, m := range setRe.FindAllStringSubmatchIndex(text, -1) {
		content := strings.TrimSpace(text[m[2]:m[3]])
		if content == "" || seen[content] {
			continue
		}
		seen[content] = true
		g.AddNode(graph.Node{
			ID:    fmt.Sprintf("set_%d", i),
			Type:  graph.IntervalSet,
			Label: "{" + content + "}",
			Properties: graph.Properties{
				"elements": splitList(content),
				"span":     []int{m[0], m[1]},
			},
		})
		i++
	}
}

func (p *Parser) matrices(g *graph.Graph, text string) {
	i := 0
	for _, m := range matrixRe.FindAllStringSubmatchIndex(text, -1) {
		rows, ok := parseRows(text[m[2]:m[3]])
		if !ok {
			continue
		}
		g.AddNode(graph.Node{
			ID:    fmt.Sprintf("matrix_%d", i),
			Type:  graph.Group,
			Label: text[m[0]:m[1]],
			Properties: graph.Properties{
				"rows": rows,
				"size": []int{len(rows), len(rows[0])},
				"span": []int{m[0], m[1]},
			},
		})
		i++
	}
}

// parseRows reads the inside of [[a, b], [c, d]] ("a, b], [c, d") into a
// rectangular matrix. Ragged or empty input is rejected.
func parseRows(body string) ([][]float64, bool) {
	var rows [][]float64
	for _, chunk := range strings.Split(body, "]") {
		chunk = strings.Trim(chunk, " ,[")
		if chunk == "" {
			continue
		}
		var row []float64
		for _, f := range strings.FieldsFunc(chunk, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, false
			}
			row = append(row, v)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, len(rows) > 0 && len(rows[0]) > 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
