// Package pipeline runs the extract → validate → optimize → transform → layout
// → render chain shared by the CLI and the HTTP server.
//
// Every entry point goes through a [Runner], so caching, logging and hooks
// behave the same whether a graph was requested from a terminal or over HTTP.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Parser: "theory",
//	    Input:  []byte("C and E form a major third, M3"),
//	    Layout: layout.CircleOfFifths,
//	    Format: "svg",
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifact)
//
// Stages can also be run on their own:
//
//	g, hit, err := runner.Extract(ctx, "math", input, false)
//	positioned, _, err := runner.Layout(ctx, g, layout.Tonnetz, nil)
//	report, _, err := runner.Compare(ctx, g1, g2, compare.Options{})
package pipeline

import (
	"bytes"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tonegraph/pkg/cache"
	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/layout"
	"github.com/matzehuels/tonegraph/pkg/notation/parsers"
	"github.com/matzehuels/tonegraph/pkg/optimize"
	"github.com/matzehuels/tonegraph/pkg/transform"
)

// Defaults shared by the CLI, the server and the config file.
const (
	DefaultParser = "theory"
	DefaultLayout = layout.TransformationNetwork
	DefaultFormat = FormatJSON

	// DefaultBatchConcurrency bounds parallel extraction in ExtractBatch.
	DefaultBatchConcurrency = 4

	// MaxInputBytes caps a single parser input.
	MaxInputBytes = 32 << 20
)

// Options configures a full pipeline run. The zero value of every stage
// option skips that stage, except Format which defaults to JSON.
type Options struct {
	// Extract
	Parser  string `json:"parser"`
	Input   []byte `json:"-"`
	Refresh bool   `json:"refresh,omitempty"`

	// Validate records structural issues in Result.Issues.
	Validate bool `json:"validate,omitempty"`

	// Optimize runs Strategies, or every strategy when Strategies is empty.
	Optimize   bool     `json:"optimize,omitempty"`
	Strategies []string `json:"strategies,omitempty"`

	// Transform is a transformation code such as "T7" or "PL".
	Transform string `json:"transform,omitempty"`

	// Layout names a layout strategy. Empty leaves nodes unpositioned.
	Layout       string        `json:"layout,omitempty"`
	LayoutParams layout.Params `json:"layout_params,omitempty"`

	// Render
	Format   string `json:"format,omitempty"`
	Title    string `json:"title,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the graph after every requested stage.
	Graph *graph.Graph

	// GraphHash is the content hash of the extracted graph.
	GraphHash string

	// Issues lists validation findings. Empty when validation passed or was
	// not requested.
	Issues []string

	// Artifact is Graph rendered in Options.Format.
	Artifact []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	ExtractTime   time.Duration
	OptimizeTime  time.Duration
	TransformTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	ExtractHit bool
	LayoutHit  bool
}

// ValidateAndSetDefaults checks every stage option before any work starts,
// so a bad layout name fails fast instead of after a slow extraction.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Parser == "" {
		o.Parser = DefaultParser
	}
	if _, err := parsers.Lookup(o.Parser); err != nil {
		return err
	}
	if len(o.Input) > MaxInputBytes {
		return errors.New(errors.ErrCodeInvalidInput, "input too large (%d bytes, max %d)", len(o.Input), MaxInputBytes)
	}
	for _, s := range o.Strategies {
		if _, err := optimize.Lookup(s); err != nil {
			return err
		}
	}
	if o.Transform != "" {
		if _, err := transform.Parse(o.Transform); err != nil {
			return err
		}
	}
	if o.Layout != "" {
		if err := ValidateLayout(o.Layout); err != nil {
			return err
		}
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateLayout checks that name is a registered layout.
func ValidateLayout(name string) error {
	for _, n := range layout.Names() {
		if n == name {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", name)
}

// HashGraph returns the content hash of g's JSON form.
func HashGraph(g *graph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := gio.WriteJSON(g, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}
