package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tonegraph/pkg/cache"
	"github.com/matzehuels/tonegraph/pkg/compare"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/layout"
	"github.com/matzehuels/tonegraph/pkg/observability"
	"github.com/matzehuels/tonegraph/pkg/optimize"
	"github.com/matzehuels/tonegraph/pkg/transform"
	"github.com/matzehuels/tonegraph/pkg/validate"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs every stage requested by opts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	start := time.Now()
	g, hit, err := r.Extract(ctx, opts.Parser, opts.Input, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result.Stats.ExtractTime = time.Since(start)
	result.CacheInfo.ExtractHit = hit
	if result.GraphHash, err = HashGraph(g); err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}
	opts.Logger.Info("extracted graph",
		"parser", opts.Parser,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", hit,
		"duration", result.Stats.ExtractTime)

	if opts.Validate {
		result.Issues = r.Validate(ctx, g)
		if len(result.Issues) > 0 {
			opts.Logger.Warn("validation issues", "count", len(result.Issues))
		}
	}

	if opts.Optimize {
		start = time.Now()
		if g, err = r.Optimize(ctx, g, opts.Strategies...); err != nil {
			return nil, fmt.Errorf("optimize: %w", err)
		}
		result.Stats.OptimizeTime = time.Since(start)
		opts.Logger.Info("optimized graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	}

	if opts.Transform != "" {
		start = time.Now()
		if g, err = r.Transform(ctx, g, opts.Transform); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		result.Stats.TransformTime = time.Since(start)
		opts.Logger.Info("transformed graph", "code", opts.Transform)
	}

	if opts.Layout != "" {
		start = time.Now()
		if g, hit, err = r.Layout(ctx, g, opts.Layout, opts.LayoutParams); err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Stats.LayoutTime = time.Since(start)
		result.CacheInfo.LayoutHit = hit
		opts.Logger.Info("computed layout", "layout", opts.Layout, "cached", hit, "duration", result.Stats.LayoutTime)
	}

	start = time.Now()
	result.Artifact, err = r.Render(ctx, g, opts.Format, RenderOptions{Title: opts.Title, Detailed: opts.Detailed})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(start)
	opts.Logger.Info("rendered output", "format", opts.Format, "bytes", len(result.Artifact))

	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	return result, nil
}

// Extract parses input with the named parser. The graph is cached under the
// parser name and input hash unless refresh is set, in which case the cache
// is bypassed on read and overwritten on write.
func (r *Runner) Extract(ctx context.Context, parser string, input []byte, refresh bool) (*graph.Graph, bool, error) {
	key := r.Keyer.ParseKey(parser, cache.Hash(input))
	if !refresh {
		if data, ok := r.load(ctx, "parse", key); ok {
			if g, err := gio.ReadMsgpack(bytes.NewReader(data)); err == nil {
				return g, true, nil
			}
			r.Logger.Debug("discarding undecodable cache entry", "key", key)
		}
	}

	var g *graph.Graph
	err := r.track(ctx, "extract", parser, func() (int, error) {
		var err error
		g, err = Extract(parser, input)
		if err != nil {
			return 0, err
		}
		return g.NodeCount(), nil
	})
	if err != nil {
		return nil, false, err
	}
	if n := g.DroppedEdges(); n > 0 {
		r.Logger.Debug("dropped edges with missing endpoints", "parser", parser, "count", n)
	}

	// A cold result goes through the same decode as a cached one, so a hit
	// and a miss return identical graphs.
	var buf bytes.Buffer
	if err := gio.WriteMsgpack(g, &buf); err == nil {
		r.store(ctx, "parse", key, buf.Bytes(), cache.TTLParse)
		if snap, err := gio.ReadMsgpack(bytes.NewReader(buf.Bytes())); err == nil {
			g = snap
		}
	}
	return g, false, nil
}

// ExtractBatch parses every input concurrently with the same parser. Results
// keep input order. The first failure cancels the remaining work.
func (r *Runner) ExtractBatch(ctx context.Context, parser string, inputs [][]byte) ([]*graph.Graph, error) {
	out := make([]*graph.Graph, len(inputs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(DefaultBatchConcurrency)
	for i, input := range inputs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, _, err := r.Extract(ctx, parser, input, false)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			out[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate returns the structural issues of g.
func (r *Runner) Validate(ctx context.Context, g *graph.Graph) []string {
	var issues []string
	_ = r.track(ctx, "validate", "", func() (int, error) {
		issues = validate.Validate(g)
		return g.NodeCount(), nil
	})
	return issues
}

// Optimize applies the named strategies, or all of them when none are named.
func (r *Runner) Optimize(ctx context.Context, g *graph.Graph, strategies ...string) (*graph.Graph, error) {
	var out *graph.Graph
	err := r.track(ctx, "optimize", fmt.Sprint(strategies), func() (int, error) {
		var err error
		out, err = optimize.Optimize(g, strategies...)
		if err != nil {
			return 0, err
		}
		return out.NodeCount(), nil
	})
	return out, err
}

// Transform applies a transformation code.
func (r *Runner) Transform(ctx context.Context, g *graph.Graph, code string) (*graph.Graph, error) {
	var out *graph.Graph
	err := r.track(ctx, "transform", code, func() (int, error) {
		var err error
		out, err = transform.Apply(g, code)
		if err != nil {
			return 0, err
		}
		return out.NodeCount(), nil
	})
	return out, err
}

// Layout positions g with the named strategy, caching the positioned graph
// under the graph hash, layout name and params.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, name string, params layout.Params) (*graph.Graph, bool, error) {
	if err := ValidateLayout(name); err != nil {
		return nil, false, err
	}
	hash, err := HashGraph(g)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(hash, name, params)
	if data, ok := r.load(ctx, "layout", key); ok {
		if out, err := gio.ReadMsgpack(bytes.NewReader(data)); err == nil {
			return out, true, nil
		}
	}

	var out *graph.Graph
	err = r.track(ctx, "layout", name, func() (int, error) {
		var err error
		out, err = layout.Apply(g, name, params)
		if err != nil {
			return 0, err
		}
		return out.NodeCount(), nil
	})
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := gio.WriteMsgpack(out, &buf); err == nil {
		r.store(ctx, "layout", key, buf.Bytes(), cache.TTLLayout)
	}
	return out, false, nil
}

// Compare builds the comparison report of g1 against g2. Reports with zero
// structural similarity are not cached because the edit distance search may
// have run out of budget.
func (r *Runner) Compare(ctx context.Context, g1, g2 *graph.Graph, opts compare.Options) (compare.Report, bool, error) {
	h1, err := HashGraph(g1)
	if err != nil {
		return compare.Report{}, false, err
	}
	h2, err := HashGraph(g2)
	if err != nil {
		return compare.Report{}, false, err
	}
	key := r.Keyer.CompareKey(h1, h2, cache.CompareKeyOpts{MaxSteps: opts.MaxSteps})
	if data, ok := r.load(ctx, "compare", key); ok {
		var report compare.Report
		if err := json.Unmarshal(data, &report); err == nil {
			return report, true, nil
		}
	}

	var report compare.Report
	_ = r.track(ctx, "compare", "", func() (int, error) {
		report = compare.Compare(ctx, g1, g2, opts)
		return g1.NodeCount() + g2.NodeCount(), nil
	})

	if report.Similarity.Structural > 0 {
		if data, err := json.Marshal(report); err == nil {
			r.store(ctx, "compare", key, data, cache.TTLCompare)
		}
	}
	return report, false, nil
}

// Render writes g in the given artifact format.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, format string, opts RenderOptions) ([]byte, error) {
	var data []byte
	err := r.track(ctx, "render", format, func() (int, error) {
		var err error
		data, err = Render(ctx, g, format, opts)
		return g.NodeCount(), err
	})
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) track(ctx context.Context, stage, subject string, fn func() (int, error)) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage, subject)
	start := time.Now()
	n, err := fn()
	hooks.OnStageComplete(ctx, stage, subject, n, time.Since(start), err)
	return err
}

func (r *Runner) load(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", kind, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}
