package io_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/io"
)

func ExampleWriteJSON() {
	g := graph.New()
	g.AddNode(graph.Node{ID: "pc_C", Type: graph.PitchClass, Label: "C"}.At(1, 0))
	g.AddNode(graph.Node{ID: "pc_G", Type: graph.PitchClass, Label: "G"})
	g.AddEdge(graph.NewEdge("pc_C", "pc_G", "T7"))

	if err := io.WriteJSON(g, os.Stdout); err != nil {
		fmt.Println(err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "pc_C",
	//       "type": "pitch_class",
	//       "label": "C",
	//       "properties": {},
	//       "position": [
	//         1,
	//         0
	//       ]
	//     },
	//     {
	//       "id": "pc_G",
	//       "type": "pitch_class",
	//       "label": "G",
	//       "properties": {},
	//       "position": null
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source": "pc_C",
	//       "target": "pc_G",
	//       "label": "T7",
	//       "weight": 1,
	//       "properties": {}
	//     }
	//   ]
	// }
}

func ExampleReadJSON() {
	in := `{
	  "nodes": [
	    {"id": "a", "type": "transformation", "label": "T1"},
	    {"id": "b", "type": "transformation", "label": "T2"}
	  ],
	  "edges": [{"source": "a", "target": "b", "label": "∘"}]
	}`
	g, err := io.ReadJSON(strings.NewReader(in))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, e := range g.Edges() {
		fmt.Printf("%s -[%s]-> %s (weight %g)\n", e.Source, e.Label, e.Target, e.Weight)
	}
	// Output:
	// a -[∘]-> b (weight 1)
}
