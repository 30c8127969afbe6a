package layout

import (
	"math"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/pitch"
)

// TonnetzCoords are the lattice coordinates of each pitch class. Fifths run
// along x and major thirds along y.
var TonnetzCoords = map[string]graph.Point{
	"C":  {X: 0, Y: 0},
	"G":  {X: 1, Y: 0},
	"D":  {X: 2, Y: 0},
	"E":  {X: 0, Y: 1},
	"B":  {X: 1, Y: 1},
	"F#": {X: 2, Y: 1},
	"G#": {X: 0, Y: 2},
	"D#": {X: 1, Y: 2},
	"A#": {X: 2, Y: 2},
	"F":  {X: -0.5, Y: -0.5},
	"A":  {X: 0.5, Y: -0.5},
	"C#": {X: 1.5, Y: -0.5},
}

func circleOfFifths(g *graph.Graph, p Params) *graph.Graph {
	radius := p.Float("radius", 1)
	pos := make(map[string]graph.Point)
	for _, n := range g.NodesOfType(graph.PitchClass) {
		pos[n.ID] = graph.Point{}
		label, ok := pitch.Normalize(n.Label)
		if !ok {
			continue
		}
		for i, pc := range pitch.Fifths {
			if pc == label {
				angle := 2 * math.Pi * float64(i) / 12
				pos[n.ID] = graph.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
				break
			}
		}
	}
	return place(g, pos)
}

func tonnetz(g *graph.Graph, p Params) *graph.Graph {
	scale := p.Float("scale", 1)
	pos := make(map[string]graph.Point)
	for _, n := range g.NodesOfType(graph.PitchClass) {
		label, ok := pitch.Normalize(n.Label)
		if !ok {
			continue
		}
		if c, ok := TonnetzCoords[label]; ok {
			pos[n.ID] = graph.Point{X: c.X * scale, Y: c.Y * scale}
		}
	}
	return place(g, pos)
}
