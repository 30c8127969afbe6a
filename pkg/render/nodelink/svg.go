package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Engine is a Graphviz layout engine.
type Engine string

// Engines used by the renderer.
const (
	EngineDot   Engine = "dot"
	EngineNeato Engine = "neato"
)

// EngineFor returns neato when any node of g has a layout position, so that
// pinned positions are honored, and dot otherwise.
func EngineFor(g *graph.Graph) Engine {
	for _, n := range g.Nodes() {
		if n.Position != nil {
			return EngineNeato
		}
	}
	return EngineDot
}

// RenderSVG renders DOT source to SVG with the given layout engine.
func RenderSVG(ctx context.Context, dot string, engine Engine) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	if engine == EngineNeato {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one whose viewBox
// starts at the origin and whose width and height match it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
