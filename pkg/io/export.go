package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// WriteJSON encodes g as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(g)); err != nil {
		return encodeError(FormatJSON, err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
