// Package parsers registers every notation strategy under a stable name.
//
// The strategy packages import pkg/notation for its shared helpers, so
// pkg/notation cannot import them back. Consumers that need the full list
// (the CLI, the pipeline, the HTTP server) import this package instead.
//
//	p, err := parsers.Lookup("theory")
//	if err != nil {
//	    return err
//	}
//	g := p.Text.Parse("C and G form a fifth, P5")
package parsers

import (
	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/notation"
	"github.com/matzehuels/tonegraph/pkg/notation/diagram"
	"github.com/matzehuels/tonegraph/pkg/notation/geometric"
	"github.com/matzehuels/tonegraph/pkg/notation/mathexpr"
	"github.com/matzehuels/tonegraph/pkg/notation/outline"
	"github.com/matzehuels/tonegraph/pkg/notation/pattern"
	"github.com/matzehuels/tonegraph/pkg/notation/theory"
)

// Parser is one registered strategy. Text, Image or both are set.
type Parser struct {
	Name        string
	Description string
	Text        notation.TextParser
	Image       notation.ImageParser
}

// AcceptsText reports whether the strategy reads text input.
func (p *Parser) AcceptsText() bool { return p.Text != nil }

// AcceptsImage reports whether the strategy reads raster input.
func (p *Parser) AcceptsImage() bool { return p.Image != nil }

var patternDetector = pattern.New()

// All is the canonical list of strategies in documentation order.
var All = []*Parser{
	{Name: "math", Description: "int(...), f: A → B, sets and matrices", Text: mathexpr.New()},
	{Name: "geometric", Description: "points, vectors and affine matrices", Text: geometric.New()},
	{Name: "outline", Description: "indented outlines and bullet lists", Text: outline.New()},
	{Name: "theory", Description: "pitch classes, intervals, set classes and transformations in prose", Text: theory.New()},
	{Name: "diagram", Description: "raster diagrams of nodes and strokes", Image: diagram.New()},
	{Name: "pattern", Description: "operator glyphs in text, layout families in raster diagrams", Text: patternDetector, Image: patternDetector},
}

// Names returns the registered names in order.
func Names() []string {
	names := make([]string, len(All))
	for i, p := range All {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (*Parser, error) {
	for _, p := range All {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidParser, "unknown parser %q", name)
}
