// Package io reads and writes music graphs.
//
// # JSON Format
//
// JSON is the stable interchange and persistence format:
//
//	{
//	  "nodes": [
//	    {"id": "pc_C", "type": "pitch_class", "label": "C", "properties": {}, "position": [0, 0]},
//	    {"id": "transformation_T7", "type": "transformation", "label": "T7", "properties": {}, "position": null}
//	  ],
//	  "edges": [
//	    {"source": "pc_C", "target": "transformation_T7", "label": "acts_on", "weight": 1, "properties": {}}
//	  ]
//	}
//
// Node types must be one of [graph.NodeTypes]; an unknown type fails the
// load with an INVALID_FORMAT error. Edges may also carry
// "transformation_type", "composition" and "is_isomorphism", which are only
// written when set. A missing edge weight reads as 1.
//
// # Other Formats
//
// YAML and msgpack use the same document shape. GraphML maps node type,
// label and position, and edge label, weight and transformation fields, onto
// typed GraphML keys so that tools such as Gephi or yEd can open the graph.
// Scalar properties keep their type; other property values are stored as
// JSON text and read back as strings. Only JSON carries a compatibility
// promise.
//
// Use [Save] and [Load] with an explicit [Format], or [Export] and [Import]
// to pick the format from a file extension:
//
//	g, err := io.Import("network.graphml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.Export(g, "network.json")
//
// # Concurrency
//
// Readers and writers do not retain the graph. Writing is safe alongside
// other readers of the same graph but not alongside modifications.
package io
