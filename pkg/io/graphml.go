package io

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

// Attribute names reserved for node and edge fields. A property with one of
// these names is not written.
var (
	reservedNode = []string{"type", "label", "x", "y"}
	reservedEdge = []string{"label", "weight", "transformation_type", "composition", "is_isomorphism"}
)

type graphML struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// keySet assigns GraphML keys to attribute names of one domain.
type keySet struct {
	domain string
	types  map[string]string
	order  []string
}

func newKeySet(domain string) *keySet {
	return &keySet{domain: domain, types: make(map[string]string)}
}

// observe records the GraphML type of value under name. Conflicting types
// widen to string.
func (k *keySet) observe(name, typ string) {
	prev, ok := k.types[name]
	switch {
	case !ok:
		k.types[name] = typ
		k.order = append(k.order, name)
	case prev != typ:
		k.types[name] = "string"
	}
}

func (k *keySet) id(name string) string { return k.domain + "_" + name }

func (k *keySet) keys() []graphMLKey {
	out := make([]graphMLKey, 0, len(k.order))
	for _, name := range k.order {
		out = append(out, graphMLKey{ID: k.id(name), For: k.domain, Name: name, Type: k.types[name]})
	}
	return out
}

// scalarType returns the GraphML type of v, or "" when v is not a scalar.
func scalarType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "long"
	case float32, float64:
		return "double"
	}
	return ""
}

func formatValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}
	data, err := json.Marshal(v)
	return string(data), err
}

func parseValue(typ, s string) (any, error) {
	switch typ {
	case "boolean":
		return strconv.ParseBool(s)
	case "int", "long":
		return strconv.ParseInt(s, 10, 64)
	case "float", "double":
		return strconv.ParseFloat(s, 64)
	}
	return s, nil
}

func propertyData(keys *keySet, props graph.Properties, reserved []string) ([]graphMLData, error) {
	var out []graphMLData
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if slices.Contains(reserved, name) {
			continue
		}
		typ := scalarType(props[name])
		if typ == "" {
			typ = "string"
		}
		keys.observe(name, typ)
		s, err := formatValue(props[name])
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		out = append(out, graphMLData{Key: keys.id(name), Value: s})
	}
	return out, nil
}

// WriteGraphML encodes g as GraphML. Node type, label and position plus edge
// label, weight and transformation fields become typed attributes; scalar
// properties keep their type and other properties are written as JSON
// strings.
func WriteGraphML(g *graph.Graph, w io.Writer) error {
	nk, ek := newKeySet("node"), newKeySet("edge")
	nk.observe("type", "string")
	nk.observe("label", "string")
	ek.observe("label", "string")
	ek.observe("weight", "double")

	doc := graphML{XMLNS: graphMLNamespace, Graph: graphMLGraph{ID: "G", EdgeDefault: "directed"}}
	for _, n := range g.Nodes() {
		gn := graphMLNode{ID: n.ID, Data: []graphMLData{
			{Key: nk.id("type"), Value: string(n.Type)},
			{Key: nk.id("label"), Value: n.Label},
		}}
		if n.Position != nil {
			nk.observe("x", "double")
			nk.observe("y", "double")
			x, _ := formatValue(n.Position.X)
			y, _ := formatValue(n.Position.Y)
			gn.Data = append(gn.Data, graphMLData{Key: nk.id("x"), Value: x}, graphMLData{Key: nk.id("y"), Value: y})
		}
		props, err := propertyData(nk, n.Properties, reservedNode)
		if err != nil {
			return encodeError(FormatGraphML, fmt.Errorf("node %s: %w", n.ID, err))
		}
		gn.Data = append(gn.Data, props...)
		doc.Graph.Nodes = append(doc.Graph.Nodes, gn)
	}
	for _, e := range g.Edges() {
		weight, _ := formatValue(e.Weight)
		ge := graphMLEdge{Source: e.Source, Target: e.Target, Data: []graphMLData{
			{Key: ek.id("label"), Value: e.Label},
			{Key: ek.id("weight"), Value: weight},
		}}
		if e.TransformationType != "" {
			ek.observe("transformation_type", "string")
			ge.Data = append(ge.Data, graphMLData{Key: ek.id("transformation_type"), Value: e.TransformationType})
		}
		if len(e.Composition) > 0 {
			ek.observe("composition", "string")
			s, _ := formatValue(e.Composition)
			ge.Data = append(ge.Data, graphMLData{Key: ek.id("composition"), Value: s})
		}
		if e.IsIsomorphism {
			ek.observe("is_isomorphism", "boolean")
			ge.Data = append(ge.Data, graphMLData{Key: ek.id("is_isomorphism"), Value: "true"})
		}
		props, err := propertyData(ek, e.Properties, reservedEdge)
		if err != nil {
			return encodeError(FormatGraphML, fmt.Errorf("edge %s->%s: %w", e.Source, e.Target, err))
		}
		ge.Data = append(ge.Data, props...)
		doc.Graph.Edges = append(doc.Graph.Edges, ge)
	}
	doc.Keys = append(nk.keys(), ek.keys()...)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return encodeError(FormatGraphML, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return encodeError(FormatGraphML, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return encodeError(FormatGraphML, err)
	}
	return nil
}

// ReadGraphML decodes a GraphML document. Attributes other than the reserved
// node and edge fields become properties, converted by their declared type.
func ReadGraphML(r io.Reader) (*graph.Graph, error) {
	var doc graphML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, decodeError(FormatGraphML, err)
	}
	keys := make(map[string]graphMLKey, len(doc.Keys))
	for _, k := range doc.Keys {
		keys[k.ID] = k
	}
	attrs := func(data []graphMLData) (map[string]any, error) {
		out := make(map[string]any, len(data))
		for _, d := range data {
			k, ok := keys[d.Key]
			if !ok {
				return nil, fmt.Errorf("undeclared key %q", d.Key)
			}
			v, err := parseValue(k.Type, d.Value)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", k.Name, err)
			}
			out[k.Name] = v
		}
		return out, nil
	}

	var nodes []graph.Node
	for _, gn := range doc.Graph.Nodes {
		a, err := attrs(gn.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", gn.ID)
		}
		typeName, _ := a["type"].(string)
		t, err := graph.ParseNodeType(typeName)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", gn.ID)
		}
		n := graph.Node{ID: gn.ID, Type: t, Properties: graph.Properties{}}
		n.Label, _ = a["label"].(string)
		x, okX := a["x"].(float64)
		y, okY := a["y"].(float64)
		if okX && okY {
			n.Position = &graph.Point{X: x, Y: y}
		}
		for name, v := range a {
			if !slices.Contains(reservedNode, name) {
				n.Properties[name] = v
			}
		}
		nodes = append(nodes, n)
	}

	var edges []graph.Edge
	for _, ge := range doc.Graph.Edges {
		a, err := attrs(ge.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s->%s", ge.Source, ge.Target)
		}
		label, _ := a["label"].(string)
		e := graph.NewEdge(ge.Source, ge.Target, label)
		if w, ok := a["weight"].(float64); ok {
			e.Weight = w
		}
		e.TransformationType, _ = a["transformation_type"].(string)
		if s, ok := a["composition"].(string); ok {
			if err := json.Unmarshal([]byte(s), &e.Composition); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s->%s: composition", ge.Source, ge.Target)
			}
		}
		e.IsIsomorphism, _ = a["is_isomorphism"].(bool)
		for name, v := range a {
			if !slices.Contains(reservedEdge, name) {
				e.Properties[name] = v
			}
		}
		edges = append(edges, e)
	}
	return graph.Assemble(nodes, edges), nil
}
