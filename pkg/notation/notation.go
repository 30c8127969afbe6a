// Package notation defines the parser contracts that turn notation into graphs.
//
// Each strategy lives in its own subpackage and exposes a stateless parser whose
// only state is a table of precompiled patterns:
//
//   - mathexpr: symbolic math such as int(...), f: A → B, sets and matrices
//   - geometric: points, vectors and affine matrices
//   - outline: indented outlines and bullet lists
//   - theory: free-text music theory prose
//   - diagram: raster diagrams of nodes and connecting strokes
//   - pattern: operator glyphs in text and layout families in raster diagrams
//
// Parsers never fail on malformed input. Text that matches nothing simply yields
// an empty graph, so an empty result is the "nothing found" signal.
//
// The parsers subpackage registers every strategy under a stable name for the
// CLI, pipeline and HTTP server.
package notation

import (
	"image"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// TextParser converts a UTF-8 text fragment into a graph.
type TextParser interface {
	Parse(text string) *graph.Graph
}

// ImageParser converts a decoded raster image into a graph.
type ImageParser interface {
	ParseImage(img image.Image) *graph.Graph
}

// TextFunc adapts a plain function to the TextParser interface.
type TextFunc func(text string) *graph.Graph

// Parse calls f(text).
func (f TextFunc) Parse(text string) *graph.Graph { return f(text) }

// Normalize returns text in Unicode normalization form C so that accidentals
// and arrows typed as combining sequences match the same patterns as their
// precomposed forms.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Bounded reports whether text[start:end] is not directly glued to a letter or
// digit on either side. Parsers use it to reject tokens embedded in words, such
// as the "C" inside "Chord".
func Bounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
