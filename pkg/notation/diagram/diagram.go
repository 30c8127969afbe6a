// Package diagram extracts node/edge graphs from raster diagrams.
//
// The pipeline is:
//
//  1. Grayscale and threshold the image into an ink mask.
//  2. Open the mask to drop thin strokes; the remaining regions with enough
//     area are shape nodes (circle, square, triangle or polygon).
//  3. Smaller regions that correlate with a disc template are point nodes.
//  4. Strokes left after masking out the nodes are fed to a progressive
//     probabilistic Hough transform that yields line segments.
//  5. A segment becomes an edge only if both endpoints snap to two different
//     nodes within SnapRadius of their outline; otherwise it is discarded.
package diagram

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// ConnectsLabel labels edges created from strokes.
const ConnectsLabel = "connects"

// Options tunes detection. Zero fields fall back to [DefaultOptions].
type Options struct {
	Threshold      uint8   // gray level separating ink from page
	MinArea        int     // minimum pixel area of a shape node
	OpenRadius     int     // strokes thinner than 2*OpenRadius+1 are not shapes
	TemplateRadius int     // radius of the dot template
	TemplateScore  float64 // minimum correlation for a dot
	SnapRadius     float64 // max distance from a node outline to a line end
	MinLineLength  float64 // shortest accepted segment
	MaxLineGap     float64 // longest gap bridged inside a segment
	HoughThreshold int     // minimum accumulator votes for a candidate line
}

// DefaultOptions returns the detection defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:      127,
		MinArea:        100,
		OpenRadius:     1,
		TemplateRadius: 3,
		TemplateScore:  0.8,
		SnapRadius:     10,
		MinLineLength:  30,
		MaxLineGap:     10,
		HoughThreshold: 20,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Threshold == 0 {
		o.Threshold = d.Threshold
	}
	if o.MinArea <= 0 {
		o.MinArea = d.MinArea
	}
	if o.OpenRadius <= 0 {
		o.OpenRadius = d.OpenRadius
	}
	if o.TemplateRadius <= 0 {
		o.TemplateRadius = d.TemplateRadius
	}
	if o.TemplateScore <= 0 {
		o.TemplateScore = d.TemplateScore
	}
	if o.SnapRadius <= 0 {
		o.SnapRadius = d.SnapRadius
	}
	if o.MinLineLength <= 0 {
		o.MinLineLength = d.MinLineLength
	}
	if o.MaxLineGap <= 0 {
		o.MaxLineGap = d.MaxLineGap
	}
	if o.HoughThreshold <= 0 {
		o.HoughThreshold = d.HoughThreshold
	}
	return o
}

// Blob is a detected node.
type Blob struct {
	ID         string
	X, Y       float64 // centroid
	Area       int
	Radius     float64 // half the larger bounding-box side
	Shape      string
	Confidence float64
	Source     string // "contour" or "template"
}

// Link is a segment whose ends snapped to two blobs.
type Link struct {
	From, To   string
	Segment    Segment
	Confidence float64
}

// Detection is the raw output of the raster pipeline.
type Detection struct {
	Width, Height int
	Blobs         []Blob
	Segments      []Segment
	Links         []Link
}

// Parser is the raster strategy.
type Parser struct {
	Options Options
}

// New returns a Parser with default options.
func New() *Parser { return &Parser{Options: DefaultOptions()} }

// ParseImage implements notation.ImageParser.
func (p *Parser) ParseImage(img image.Image) *graph.Graph {
	return p.Detect(img).Graph()
}

// Detect runs the full pipeline and returns every intermediate detection.
func (p *Parser) Detect(img image.Image) Detection {
	opts := p.Options.withDefaults()
	ink := binarize(img, opts.Threshold)
	det := Detection{Width: ink.w, Height: ink.h}
	if ink.w == 0 || ink.h == 0 {
		return det
	}

	opened := ink.open(opts.OpenRadius)
	nodes := newMask(ink.w, ink.h)
	tmpl := newDiscTemplate(opts.TemplateRadius)
	var small []*component

	for _, c := range opened.components() {
		if c.area() < opts.MinArea {
			small = append(small, c)
			continue
		}
		det.Blobs = append(det.Blobs, contourBlob(c))
		for _, i := range c.pixels {
			nodes.px[i] = true
		}
	}
	for _, c := range small {
		cx, cy := c.centroid()
		score, bx, by := tmpl.best(ink, int(math.Round(cx)), int(math.Round(cy)))
		if score < opts.TemplateScore {
			continue
		}
		det.Blobs = append(det.Blobs, Blob{
			X:          float64(bx),
			Y:          float64(by),
			Area:       c.area(),
			Radius:     float64(opts.TemplateRadius),
			Shape:      "circle",
			Confidence: math.Min(1, score),
			Source:     "template",
		})
		for _, i := range c.pixels {
			nodes.px[i] = true
		}
	}
	for i := range det.Blobs {
		det.Blobs[i].ID = fmt.Sprintf("node_%d", i)
	}

	grown := nodes
	for i := 0; i < opts.OpenRadius+2; i++ {
		grown = grown.dilate()
	}
	strokes := ink.without(grown)
	det.Segments = newHough(strokes, opts.HoughThreshold, opts.MinLineLength, opts.MaxLineGap).segments()
	det.Links = snap(det.Blobs, det.Segments, opts.SnapRadius)
	return det
}

// contourBlob classifies a shape region by how much of its bounding box it
// fills: about 1 for squares, pi/4 for discs and 1/2 for triangles.
func contourBlob(c *component) Blob {
	x, y := c.centroid()
	fill := float64(c.area()) / float64(c.bboxArea())
	var shape string
	var ideal float64
	switch {
	case fill >= 0.9:
		shape, ideal = "square", 1
	case fill >= 0.6:
		shape, ideal = "circle", math.Pi/4
	case fill >= 0.35:
		shape, ideal = "triangle", 0.5
	default:
		shape, ideal = "polygon", fill
	}
	conf := 1 - math.Abs(fill-ideal)/ideal
	if shape == "polygon" {
		conf = 0.5
	}
	w, h := c.maxX-c.minX+1, c.maxY-c.minY+1
	return Blob{
		X:          x,
		Y:          y,
		Area:       c.area(),
		Radius:     float64(max(w, h)) / 2,
		Shape:      shape,
		Confidence: math.Max(0, math.Min(1, conf)),
		Source:     "contour",
	}
}

// snap attaches each segment end to the closest blob whose outline is within
// radius. Segments that do not join two distinct blobs are dropped; when
// several segments join the same pair, the longest wins.
func snap(blobs []Blob, segs []Segment, radius float64) []Link {
	nearest := func(x, y float64) int {
		best, bi := math.Inf(1), -1
		for i, b := range blobs {
			d := math.Hypot(x-b.X, y-b.Y)
			if d > b.Radius+radius {
				continue
			}
			if gap := d - b.Radius; gap < best {
				best, bi = gap, i
			}
		}
		return bi
	}

	byPair := map[[2]int]Link{}
	for _, s := range segs {
		a, b := nearest(s.X1, s.Y1), nearest(s.X2, s.Y2)
		if a < 0 || b < 0 || a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if prev, ok := byPair[key]; ok && prev.Segment.Length() >= s.Length() {
			continue
		}
		byPair[key] = Link{
			From:       blobs[a].ID,
			To:         blobs[b].ID,
			Segment:    s,
			Confidence: math.Min(1, s.Support),
		}
	}

	keys := make([][2]int, 0, len(byPair))
	for k := range byPair {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	links := make([]Link, len(keys))
	for i, k := range keys {
		links[i] = byPair[k]
	}
	return links
}

// Graph converts the detection into a graph of network_node vertices.
func (d Detection) Graph() *graph.Graph {
	g := graph.New()
	for _, b := range d.Blobs {
		g.AddNode(graph.Node{
			ID:    b.ID,
			Type:  graph.NetworkNode,
			Label: b.ID,
			Properties: graph.Properties{
				"shape":      b.Shape,
				"area":       b.Area,
				"radius":     b.Radius,
				"confidence": b.Confidence,
				"source":     b.Source,
			},
		}.At(b.X, b.Y))
	}
	for _, l := range d.Links {
		e := graph.NewEdge(l.From, l.To, ConnectsLabel)
		e.Properties["confidence"] = l.Confidence
		e.Properties["length"] = l.Segment.Length()
		e.Properties["segment"] = []float64{l.Segment.X1, l.Segment.Y1, l.Segment.X2, l.Segment.Y2}
		g.AddEdge(e)
	}
	return g
}
