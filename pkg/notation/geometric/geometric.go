// Package geometric extracts graphs from 2D geometric notation.
//
// Points are written (x, y), vectors <x, y> and transformation matrices
// T[a b c; d e f; g h i] with rows separated by ';' and values by spaces.
// Applying a matrix to a point uses the homogeneous row-vector convention
// [x y 1]·M. When the image of a point coincides with another extracted point,
// an edge labeled with the transformation's label joins pre-image and image.
package geometric

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation"
)

// DefaultTolerance is the coordinate tolerance used to match transformed points.
const DefaultTolerance = 1e-6

var (
	pointRe  = regexp.MustCompile(`\((-?\d+\.?\d*),\s*(-?\d+\.?\d*)\)`)
	vectorRe = regexp.MustCompile(`<(-?\d+\.?\d*),\s*(-?\d+\.?\d*)>`)
	matrixRe = regexp.MustCompile(`T\[([^\]]+)\]`)
)

// Parser is the geometric strategy.
type Parser struct {
	// Tolerance is the per-coordinate match distance. Zero means DefaultTolerance.
	Tolerance float64
}

// New returns a Parser with the default tolerance.
func New() *Parser { return &Parser{Tolerance: DefaultTolerance} }

// Matrix is a 3x3 homogeneous transform.
type Matrix [3][3]float64

// Apply returns [x y 1]·m, divided through by the homogeneous coordinate when
// it is neither 0 nor 1.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	u := x*m[0][0] + y*m[1][0] + m[2][0]
	v := x*m[0][1] + y*m[1][1] + m[2][1]
	w := x*m[0][2] + y*m[1][2] + m[2][2]
	if w != 0 && math.Abs(w-1) > 1e-12 {
		u, v = u/w, v/w
	}
	return u, v
}

// ParseMatrix reads "a b; c d" (2x2, padded to an affine 3x3) or a 3x3 body.
func ParseMatrix(body string) (Matrix, bool) {
	var rows [][]float64
	for _, r := range strings.Split(body, ";") {
		var row []float64
		for _, f := range strings.Fields(strings.ReplaceAll(r, ",", " ")) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Matrix{}, false
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	n := len(rows)
	if n != 2 && n != 3 {
		return Matrix{}, false
	}
	m := Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, row := range rows {
		if len(row) != n {
			return Matrix{}, false
		}
		copy(m[i][:], row)
	}
	return m, true
}

type point struct {
	id   string
	x, y float64
}

// Parse implements notation.TextParser.
func (p *Parser) Parse(text string) *graph.Graph {
	text = notation.Normalize(text)
	tol := p.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	g := graph.New()

	var points []point
	addPoint := func(kind string, x, y float64) {
		id := fmt.Sprintf("point_%d", len(points))
		label := fmt.Sprintf("(%s, %s)", fmtNum(x), fmtNum(y))
		if kind == "vector" {
			label = fmt.Sprintf("<%s, %s>", fmtNum(x), fmtNum(y))
		}
		g.AddNode(graph.Node{
			ID:    id,
			Type:  graph.GeometricPoint,
			Label: label,
			Properties: graph.Properties{
				"x":    x,
				"y":    y,
				"kind": kind,
			},
		}.At(x, y))
		points = append(points, point{id: id, x: x, y: y})
	}
	for _, m := range pointRe.FindAllStringSubmatch(text, -1) {
		x, y := atof(m[1]), atof(m[2])
		addPoint("point", x, y)
	}
	for _, m := range vectorRe.FindAllStringSubmatch(text, -1) {
		addPoint("vector", atof(m[1]), atof(m[2]))
	}

	transforms := 0
	for _, m := range matrixRe.FindAllStringSubmatch(text, -1) {
		mat, ok := ParseMatrix(m[1])
		if !ok {
			continue
		}
		id := fmt.Sprintf("transform_%d", transforms)
		label := fmt.Sprintf("T%d", transforms)
		transforms++
		g.AddNode(graph.Node{
			ID:    id,
			Type:  graph.Transformation,
			Label: label,
			Properties: graph.Properties{
				"matrix": [][]float64{mat[0][:], mat[1][:], mat[2][:]},
				"kind":   "geometric_transformation",
			},
		})
		for _, src := range points {
			u, v := mat.Apply(src.x, src.y)
			for _, dst := range points {
				if math.Abs(u-dst.x) <= tol && math.Abs(v-dst.y) <= tol {
					e := graph.NewEdge(src.id, dst.id, label)
					e.Properties["transformation_id"] = id
					e.TransformationType = "affine"
					g.AddEdge(e)
				}
			}
		}
	}
	return g
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
