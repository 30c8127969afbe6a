package analysis

import (
	"reflect"
	"regexp"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Query runs ad hoc lookups against a graph. Unlike [Analyzer] it does not
// snapshot or cache; each call reads the graph as it is.
type Query struct {
	g *graph.Graph
}

// NewQuery returns a Query over g.
func NewQuery(g *graph.Graph) *Query { return &Query{g: g} }

// NodesByType returns the nodes of type t.
func (q *Query) NodesByType(t graph.NodeType) []graph.Node {
	return q.g.NodesOfType(t)
}

// NodesByLabel returns the nodes whose label matches the regular expression.
func (q *Query) NodesByLabel(pattern string) ([]graph.Node, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid label pattern %q", pattern)
	}
	var out []graph.Node
	for _, n := range q.g.Nodes() {
		if re.MatchString(n.Label) {
			out = append(out, n)
		}
	}
	return out, nil
}

// NodesByProperty returns the nodes whose property name equals value.
func (q *Query) NodesByProperty(name string, value any) []graph.Node {
	var out []graph.Node
	for _, n := range q.g.Nodes() {
		if v, ok := n.Properties[name]; ok && reflect.DeepEqual(v, value) {
			out = append(out, n)
		}
	}
	return out
}

// TransformationPath finds a path between the first node labeled start and
// the first node labeled end, walking edges in both directions depth first.
// The path is not necessarily shortest. It returns nil when either label is
// absent or no path exists.
func (q *Query) TransformationPath(start, end string) []string {
	src, dst := q.firstByLabel(start), q.firstByLabel(end)
	if src == "" || dst == "" {
		return nil
	}

	edges := q.g.Edges()
	type frame struct {
		id   string
		next int
	}
	visited := map[string]bool{src: true}
	path := []string{src}
	stack := []frame{{id: src}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.id == dst {
			return path
		}
		other := ""
		for other == "" && f.next < len(edges) {
			e := edges[f.next]
			f.next++
			switch {
			case e.Source == f.id && !visited[e.Target]:
				other = e.Target
			case e.Target == f.id && !visited[e.Source]:
				other = e.Source
			}
		}
		if other == "" {
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}
		visited[other] = true
		path = append(path, other)
		stack = append(stack, frame{id: other})
	}
	return nil
}

func (q *Query) firstByLabel(label string) string {
	for _, n := range q.g.Nodes() {
		if n.Label == label {
			return n.ID
		}
	}
	return ""
}

// Components returns the connected components of the subgraph induced by
// nodes of type t, or of the whole graph when t is empty.
func (q *Query) Components(t graph.NodeType) [][]string {
	return newUndirected(q.typed(t)).components()
}

// Cycles returns the simple cycles of the subgraph induced by nodes of type
// t, or of the whole graph when t is empty.
func (q *Query) Cycles(t graph.NodeType) [][]string {
	return newUndirected(q.typed(t)).cycles()
}

func (q *Query) typed(t graph.NodeType) *graph.Graph {
	if t == "" {
		return q.g
	}
	return q.g.Subgraph(func(n graph.Node) bool { return n.Type == t })
}
