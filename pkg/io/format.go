package io

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Format names a graph serialization.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatGraphML Format = "graphml"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

type codec struct {
	write func(*graph.Graph, io.Writer) error
	read  func(io.Reader) (*graph.Graph, error)
}

var codecs = map[Format]codec{
	FormatJSON:    {WriteJSON, ReadJSON},
	FormatGraphML: {WriteGraphML, ReadGraphML},
	FormatYAML:    {WriteYAML, ReadYAML},
	FormatMsgpack: {WriteMsgpack, ReadMsgpack},
}

var extensions = map[string]Format{
	".json":    FormatJSON,
	".graphml": FormatGraphML,
	".xml":     FormatGraphML,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".msgpack": FormatMsgpack,
	".mpk":     FormatMsgpack,
}

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatGraphML, FormatYAML, FormatMsgpack}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := codecs[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", s)
	}
	return f, nil
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format from %q", path)
}

// Save writes g to w in the given format.
func Save(w io.Writer, g *graph.Graph, format Format) error {
	c, ok := codecs[format]
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	return c.write(g, w)
}

// Load reads a graph in the given format from r.
func Load(r io.Reader, format Format) (*graph.Graph, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	return c.read(r)
}

// Export writes g to path in the format implied by its extension.
func Export(g *graph.Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Save(f, g, format)
}

// Import reads the graph at path in the format implied by its extension.
func Import(path string) (*graph.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, format)
}

// WriteYAML encodes g as YAML.
func WriteYAML(g *graph.Graph, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(g)); err != nil {
		return encodeError(FormatYAML, err)
	}
	return enc.Close()
}

// ReadYAML decodes a YAML graph from r.
func ReadYAML(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, decodeError(FormatYAML, err)
	}
	return fromDocument(doc)
}

// WriteMsgpack encodes g as a msgpack snapshot.
func WriteMsgpack(g *graph.Graph, w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(toDocument(g)); err != nil {
		return encodeError(FormatMsgpack, err)
	}
	return nil
}

// ReadMsgpack decodes a msgpack snapshot from r.
func ReadMsgpack(r io.Reader) (*graph.Graph, error) {
	var doc document
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, decodeError(FormatMsgpack, err)
	}
	for i := range doc.Nodes {
		normalizeProperties(doc.Nodes[i].Properties)
	}
	for i := range doc.Edges {
		normalizeProperties(doc.Edges[i].Properties)
	}
	return fromDocument(doc)
}

// normalizeProperties restores the Go types parsers write. msgpack decodes
// every integer as int64 or uint64 and every list as []any, so integers become
// int again and homogeneous lists become typed slices. Floats stay float64.
func normalizeProperties(p graph.Properties) {
	for k, v := range p {
		p[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}
		return x
	case float32:
		return float64(x)
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeValue(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeValue(e)
		}
		return typedSlice(x)
	}
	return v
}

// typedSlice converts a non-empty list whose elements share one of the
// property element types into a slice of that type.
func typedSlice(xs []any) any {
	if len(xs) == 0 {
		return xs
	}
	switch xs[0].(type) {
	case int:
		return convertAll[int](xs)
	case float64:
		return convertAll[float64](xs)
	case string:
		return convertAll[string](xs)
	case bool:
		return convertAll[bool](xs)
	case []int:
		return convertAll[[]int](xs)
	case []float64:
		return convertAll[[]float64](xs)
	case []string:
		return convertAll[[]string](xs)
	}
	return xs
}

func convertAll[T any](xs []any) any {
	out := make([]T, len(xs))
	for i, x := range xs {
		v, ok := x.(T)
		if !ok {
			return xs
		}
		out[i] = v
	}
	return out
}
