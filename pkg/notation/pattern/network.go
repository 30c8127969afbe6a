package pattern

import (
	"image"
	"math"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/notation/diagram"
)

// LayoutType is the layout family of a raster transformation network.
type LayoutType string

const (
	Circular LayoutType = "circular"
	Linear   LayoutType = "linear"
	Complex  LayoutType = "complex"
)

// Thresholds used by ClassifyLayout.
const (
	CollinearRatio = 0.01
	CircularSpread = 0.15
)

// TransformationNetwork is a graph detected in a raster diagram together with
// its layout family and overall detection confidence in [0, 1].
type TransformationNetwork struct {
	Graph      *graph.Graph
	LayoutType LayoutType
	Confidence float64
}

// ImageDetector runs the raster node and stroke pipeline.
type ImageDetector interface {
	Detect(img image.Image) diagram.Detection
}

func (d *Detector) diagram() ImageDetector {
	if d.Diagram != nil {
		return d.Diagram
	}
	return diagram.New()
}

// ParseImage implements notation.ImageParser.
func (d *Detector) ParseImage(img image.Image) *graph.Graph {
	return d.DetectNetwork(img).Graph
}

// DetectNetwork detects nodes and connecting strokes in img, classifies the
// layout of the node centroids and averages the detection confidences.
func (d *Detector) DetectNetwork(img image.Image) TransformationNetwork {
	det := d.diagram().Detect(img)

	points := make([]graph.Point, len(det.Blobs))
	nodeConf := make([]float64, len(det.Blobs))
	for i, b := range det.Blobs {
		points[i] = graph.Point{X: b.X, Y: b.Y}
		nodeConf[i] = b.Confidence
	}
	edgeConf := make([]float64, len(det.Links))
	for i, l := range det.Links {
		edgeConf[i] = l.Confidence
	}

	layout := ClassifyLayout(points)
	g := det.Graph()
	for _, n := range g.Nodes() {
		n.Properties["layout_type"] = string(layout)
		g.AddNode(n)
	}
	return TransformationNetwork{
		Graph:      g,
		LayoutType: layout,
		Confidence: NetworkConfidence(nodeConf, edgeConf),
	}
}

// NetworkConfidence averages the node mean and the edge mean. With no edges it
// is the node mean; with no nodes it is 0.
func NetworkConfidence(nodes, edges []float64) float64 {
	if len(nodes) == 0 {
		return 0
	}
	if len(edges) == 0 {
		return mean(nodes)
	}
	return (mean(nodes) + mean(edges)) / 2
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// ClassifyLayout assigns a layout family to a set of node centroids.
//
// Fewer than two points are complex and exactly two are linear. Points whose
// covariance is degenerate along one principal axis (minor/major eigenvalue
// ratio below CollinearRatio) are linear. Three or more points whose distances
// to the centroid have a coefficient of variation below CircularSpread are
// circular. Everything else is complex.
func ClassifyLayout(points []graph.Point) LayoutType {
	switch n := len(points); {
	case n < 2:
		return Complex
	case n == 2:
		return Linear
	}

	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(points))
	cx, cy = cx/n, cy/n

	var sxx, syy, sxy float64
	for _, p := range points {
		dx, dy := p.X-cx, p.Y-cy
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	sxx, syy, sxy = sxx/n, syy/n, sxy/n

	half := (sxx + syy) / 2
	disc := math.Sqrt(math.Max(half*half-(sxx*syy-sxy*sxy), 0))
	major, minor := half+disc, half-disc
	if major <= 0 {
		return Complex
	}
	if minor/major < CollinearRatio {
		return Linear
	}

	radii := make([]float64, len(points))
	for i, p := range points {
		radii[i] = math.Hypot(p.X-cx, p.Y-cy)
	}
	mu := mean(radii)
	var variance float64
	for _, r := range radii {
		variance += (r - mu) * (r - mu)
	}
	if mu > 0 && math.Sqrt(variance/n)/mu < CircularSpread {
		return Circular
	}
	return Complex
}
