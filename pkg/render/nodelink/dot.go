package nodelink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// ToDOT converts g to plain Graphviz DOT: one statement per node labeled
// "label (type)", then one statement per edge carrying its label and weight.
func ToDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "    %s [label=%s];\n", quote(n.ID), quote(n.Label+" ("+string(n.Type)+")"))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "    %s -> %s [label=%s,weight=%s];\n",
			quote(e.Source), quote(e.Target), quote(e.Label), quote(formatWeight(e.Weight)))
	}
	buf.WriteString("}")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// formatWeight always keeps a decimal point so that 1 prints as 1.0.
func formatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
