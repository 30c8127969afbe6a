package graph

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// NodeType is the closed set of categories a node can belong to.
type NodeType string

const (
	PitchClass            NodeType = "pitch_class"
	Interval              NodeType = "interval"
	Transformation        NodeType = "transformation"
	SetClass              NodeType = "set_class"
	GeometricPoint        NodeType = "geometric_point"
	FunctionSpace         NodeType = "function_space"
	Group                 NodeType = "group"
	IntervalSystem        NodeType = "interval_system"
	IntervalSet           NodeType = "interval_set"
	Variable              NodeType = "variable"
	CircularGraph         NodeType = "circular_graph"
	TransformationNetwork NodeType = "transformation_network"
	GISSpace              NodeType = "gis_space"
	TransformationGroup   NodeType = "transformation_group"
	IntervalFunction      NodeType = "interval_function"
	NetworkNode           NodeType = "network_node"
)

var nodeTypes = []NodeType{
	PitchClass, Interval, Transformation, SetClass, GeometricPoint, FunctionSpace,
	Group, IntervalSystem, IntervalSet, Variable, CircularGraph, TransformationNetwork,
	GISSpace, TransformationGroup, IntervalFunction, NetworkNode,
}

// NodeTypes returns every recognized node type in declaration order.
func NodeTypes() []NodeType { return slices.Clone(nodeTypes) }

// Valid reports whether t is one of the recognized node types.
func (t NodeType) Valid() bool { return slices.Contains(nodeTypes, t) }

// String returns the wire name of the type.
func (t NodeType) String() string { return string(t) }

// ParseNodeType converts a wire name into a NodeType, rejecting unknown values.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

// Properties is the open attribute bag attached to nodes and edges.
// Values are whatever the creating parser stored: strings, numbers, bools,
// slices or nested maps.
type Properties map[string]any

// Clone returns a copy of p. Nested slices and maps are shared.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}
	return maps.Clone(p)
}

// Point is a 2D position assigned by a layout strategy.
// It encodes as a two-element JSON array.
type Point struct {
	X, Y float64
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy [2]float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Node is a vertex of the graph. ID is the only stable identity; Label is a
// display string and need not be unique.
type Node struct {
	ID         string
	Type       NodeType
	Label      string
	Properties Properties
	Position   *Point // nil until a layout assigns one
}

// At returns a copy of n positioned at (x, y).
func (n Node) At(x, y float64) Node {
	n.Position = &Point{X: x, Y: y}
	return n
}

// Clone returns a deep copy of the node's property map and position.
func (n Node) Clone() Node {
	n.Properties = n.Properties.Clone()
	if n.Position != nil {
		p := *n.Position
		n.Position = &p
	}
	return n
}

// DefaultWeight is the weight assigned to edges created with [NewEdge].
const DefaultWeight = 1.0

// Edge is a directed relation between two node ids. Most analyses treat edges
// as undirected.
type Edge struct {
	Source string
	Target string
	Label  string
	Weight float64
	// Properties hold parser-specific attributes such as "transformation_id".
	Properties Properties
	// TransformationType names the kind of transformation the edge carries
	// ("affine", "composition"); empty when the edge carries none.
	TransformationType string
	// Composition lists the component transformation labels of a composite edge.
	Composition   []string
	IsIsomorphism bool
}

// NewEdge returns an edge with the default weight and an empty property bag.
func NewEdge(source, target, label string) Edge {
	return Edge{
		Source:     source,
		Target:     target,
		Label:      label,
		Weight:     DefaultWeight,
		Properties: Properties{},
	}
}

// Pair returns the (source, target) key of the edge.
func (e Edge) Pair() [2]string { return [2]string{e.Source, e.Target} }

// IsLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

// Clone returns a copy of e with its own property map and composition slice.
func (e Edge) Clone() Edge {
	e.Properties = e.Properties.Clone()
	e.Composition = slices.Clone(e.Composition)
	return e
}
