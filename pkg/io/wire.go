package io

import (
	"fmt"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// document is the on-disk shape shared by the JSON, YAML and msgpack formats.
// Only msgpack snapshots carry the dropped-edge count.
type document struct {
	Nodes   []node `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Edges   []edge `json:"edges" yaml:"edges" msgpack:"edges"`
	Dropped int    `json:"-" yaml:"-" msgpack:"dropped_edges,omitempty"`
}

type node struct {
	ID         string           `json:"id" yaml:"id" msgpack:"id"`
	Type       string           `json:"type" yaml:"type" msgpack:"type"`
	Label      string           `json:"label" yaml:"label" msgpack:"label"`
	Properties graph.Properties `json:"properties" yaml:"properties" msgpack:"properties"`
	Position   *[2]float64      `json:"position" yaml:"position" msgpack:"position"`
}

type edge struct {
	Source             string           `json:"source" yaml:"source" msgpack:"source"`
	Target             string           `json:"target" yaml:"target" msgpack:"target"`
	Label              string           `json:"label" yaml:"label" msgpack:"label"`
	Weight             *float64         `json:"weight" yaml:"weight" msgpack:"weight"`
	Properties         graph.Properties `json:"properties" yaml:"properties" msgpack:"properties"`
	TransformationType string           `json:"transformation_type,omitempty" yaml:"transformation_type,omitempty" msgpack:"transformation_type,omitempty"`
	Composition        []string         `json:"composition,omitempty" yaml:"composition,omitempty" msgpack:"composition,omitempty"`
	IsIsomorphism      bool             `json:"is_isomorphism,omitempty" yaml:"is_isomorphism,omitempty" msgpack:"is_isomorphism,omitempty"`
}

func toDocument(g *graph.Graph) document {
	doc := document{
		Nodes:   make([]node, 0, g.NodeCount()),
		Edges:   make([]edge, 0, g.EdgeCount()),
		Dropped: g.DroppedEdges(),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID, Type: string(n.Type), Label: n.Label, Properties: n.Properties}
		if n.Position != nil {
			nd.Position = &[2]float64{n.Position.X, n.Position.Y}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges() {
		w := e.Weight
		doc.Edges = append(doc.Edges, edge{
			Source:             e.Source,
			Target:             e.Target,
			Label:              e.Label,
			Weight:             &w,
			Properties:         e.Properties,
			TransformationType: e.TransformationType,
			Composition:        e.Composition,
			IsIsomorphism:      e.IsIsomorphism,
		})
	}
	return doc
}

// fromDocument rebuilds a graph, rejecting unknown node types. Edges with a
// missing endpoint are kept so that validation can report them.
func fromDocument(doc document) (*graph.Graph, error) {
	nodes := make([]graph.Node, 0, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: missing id", i)
		}
		t, err := graph.ParseNodeType(n.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		nd := graph.Node{ID: n.ID, Type: t, Label: n.Label, Properties: n.Properties}
		if n.Position != nil {
			nd.Position = &graph.Point{X: n.Position[0], Y: n.Position[1]}
		}
		nodes = append(nodes, nd)
	}
	edges := make([]graph.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s: missing endpoint", e.Source, e.Target)
		}
		ge := graph.NewEdge(e.Source, e.Target, e.Label)
		if e.Weight != nil {
			ge.Weight = *e.Weight
		}
		if e.Properties != nil {
			ge.Properties = e.Properties
		}
		ge.TransformationType = e.TransformationType
		ge.Composition = e.Composition
		ge.IsIsomorphism = e.IsIsomorphism
		edges = append(edges, ge)
	}
	g := graph.Assemble(nodes, edges)
	g.RecordDropped(doc.Dropped)
	return g, nil
}

func decodeError(format Format, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
}

func encodeError(format Format, err error) error {
	return fmt.Errorf("encode %s: %w", format, err)
}
