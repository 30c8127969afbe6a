// Package score writes the pitch-class content of a graph as notation.
//
// Pitch-class nodes become quarter notes in graph order, spelled as written
// (Db stays D flat). Labels that are not pitch names are skipped. Humdrum
// output also carries transformation labels in a second spine.
package score

import (
	"io"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/pitch"
)

// Format names a notation format.
type Format string

// Supported formats.
const (
	MusicXML Format = "musicxml"
	MEI      Format = "mei"
	Humdrum  Format = "humdrum"
	LilyPond Format = "lilypond"
)

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "Music Theory Graph"

// Options configures score output.
type Options struct {
	Title string
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

var writers = map[Format]func(io.Writer, *graph.Graph, Options) error{
	MusicXML: writeMusicXML,
	MEI:      writeMEI,
	Humdrum:  writeHumdrum,
	LilyPond: writeLilyPond,
}

var extensions = map[Format]string{
	MusicXML: ".musicxml",
	MEI:      ".mei",
	Humdrum:  ".krn",
	LilyPond: ".ly",
}

// Formats returns the supported formats.
func Formats() []Format { return []Format{MusicXML, MEI, Humdrum, LilyPond} }

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := writers[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown score format %q", s)
	}
	return f, nil
}

// Extension returns the conventional file extension of f.
func (f Format) Extension() string { return extensions[f] }

// Write renders g in the given format.
func Write(w io.Writer, g *graph.Graph, format Format, opts Options) error {
	write, ok := writers[format]
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown score format %q", format)
	}
	return write(w, g, opts)
}

// Notes returns the spelled pitch classes of g in graph order.
func Notes(g *graph.Graph) []pitch.Spelling {
	var out []pitch.Spelling
	for _, n := range g.NodesOfType(graph.PitchClass) {
		if s, ok := pitch.Spell(n.Label); ok {
			out = append(out, s)
		}
	}
	return out
}
