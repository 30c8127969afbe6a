package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// Every node must carry an id and one of the known node types. An edge
// without a weight gets [graph.DefaultWeight]. Edges that reference unknown
// node ids are kept as-is; run the validator to find them.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, decodeError(FormatJSON, err)
	}
	return fromDocument(doc)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
