package pipeline

import (
	"bytes"
	"context"
	"slices"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/render/nodelink"
	"github.com/matzehuels/tonegraph/pkg/render/score"
)

// Artifact formats. Graph serializations and score formats keep the names
// used by pkg/io and pkg/render/score.
const (
	FormatJSON    = string(gio.FormatJSON)
	FormatGraphML = string(gio.FormatGraphML)
	FormatYAML    = string(gio.FormatYAML)
	FormatMsgpack = string(gio.FormatMsgpack)
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// Formats lists every artifact format Render accepts.
func Formats() []string {
	var out []string
	for _, f := range gio.Formats() {
		out = append(out, string(f))
	}
	out = append(out, FormatDOT, FormatSVG)
	for _, f := range score.Formats() {
		out = append(out, string(f))
	}
	return out
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats(), format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	return nil
}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	switch format {
	case FormatDOT:
		return ".dot"
	case FormatSVG:
		return ".svg"
	case FormatYAML:
		return ".yaml"
	case FormatMsgpack:
		return ".msgpack"
	case FormatGraphML:
		return ".graphml"
	case FormatJSON:
		return ".json"
	}
	if f, err := score.ParseFormat(format); err == nil {
		return f.Extension()
	}
	return ""
}

// RenderOptions tunes the visual and score outputs.
type RenderOptions struct {
	// Title heads score outputs.
	Title string
	// Detailed adds node types to SVG labels.
	Detailed bool
}

// Render writes g in the given artifact format.
func Render(ctx context.Context, g *graph.Graph, format string, opts RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatDOT:
		return []byte(nodelink.ToDOT(g)), nil
	case FormatSVG:
		dot := nodelink.ToStyledDOT(g, nodelink.Options{Detailed: opts.Detailed})
		return nodelink.RenderSVG(ctx, dot, nodelink.EngineFor(g))
	}
	if f, err := gio.ParseFormat(format); err == nil {
		if err := gio.Save(&buf, g, f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	f, err := score.ParseFormat(format)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err := score.Write(&buf, g, f, score.Options{Title: opts.Title}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
