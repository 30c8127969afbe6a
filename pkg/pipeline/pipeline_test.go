package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tonegraph/pkg/cache"
	"github.com/matzehuels/tonegraph/pkg/compare"
	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/layout"
	"github.com/matzehuels/tonegraph/pkg/observability"
)

const fifth = "C and G form a fifth, P5"

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"defaults", Options{}, ""},
		{"parser", Options{Parser: "ocr"}, errors.ErrCodeInvalidParser},
		{"layout", Options{Layout: "spiral"}, errors.ErrCodeInvalidLayout},
		{"format", Options{Format: "pdf"}, errors.ErrCodeInvalidFormat},
		{"transform", Options{Transform: "X3"}, errors.ErrCodeInvalidTransform},
		{"strategy", Options{Optimize: true, Strategies: []string{"shuffle"}}, errors.ErrCodeInvalidStrategy},
		{"size", Options{Input: make([]byte, MaxInputBytes+1)}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("ValidateAndSetDefaults() code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}

	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Parser != DefaultParser || o.Format != DefaultFormat || o.Logger == nil {
		t.Errorf("defaults not applied: %+v", o)
	}
}

func TestExtractText(t *testing.T) {
	g, err := Extract("theory", []byte(fifth))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3 (C, G, P5)", g.NodeCount())
	}

	if _, err := Extract("theory", []byte{0xff, 0xfe, 0x00}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Extract(binary) error = %v, want INVALID_INPUT", err)
	}
	if _, err := Extract("diagram", []byte(fifth)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Extract(diagram, text) error = %v, want INVALID_INPUT", err)
	}
	if _, err := Extract("nope", nil); !errors.Is(err, errors.ErrCodeInvalidParser) {
		t.Errorf("Extract(unknown) error = %v, want INVALID_PARSER", err)
	}
}

func blankPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractImage(t *testing.T) {
	g, err := Extract("diagram", blankPNG(t))
	if err != nil {
		t.Fatalf("Extract(diagram) error = %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("blank image NodeCount() = %d, want 0", g.NodeCount())
	}
}

func TestRunnerExtractCaches(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	first, hit, err := r.Extract(ctx, "theory", []byte(fifth), false)
	if err != nil || hit {
		t.Fatalf("first Extract() hit = %v, err = %v", hit, err)
	}
	second, hit, err := r.Extract(ctx, "theory", []byte(fifth), false)
	if err != nil || !hit {
		t.Fatalf("second Extract() hit = %v, err = %v, want cache hit", hit, err)
	}
	if diff := cmp.Diff(first.NodeIDs(), second.NodeIDs()); diff != "" {
		t.Errorf("cached graph mismatch (-want +got):\n%s", diff)
	}
	if _, hit, _ := r.Extract(ctx, "theory", []byte(fifth), true); hit {
		t.Error("refresh should bypass the cache")
	}
	if _, hit, _ := r.Extract(ctx, "math", []byte(fifth), false); hit {
		t.Error("cache key must include the parser name")
	}
}

func TestRunnerExtractHitMatchesCold(t *testing.T) {
	inputs := map[string]string{
		"outline":   "Harmony\n  C major\n    T7\n  12 tone row",
		"math":      "Let int(s, t) = 7 and the triad {C, E, G} under [[0, 1], [1, 0]]",
		"geometric": "Points (0, 0), (1, 0) and (2, 0) under T[1 0 0; 0 1 0; 1 0 1].",
	}
	for parser, text := range inputs {
		t.Run(parser, func(t *testing.T) {
			ctx := context.Background()
			c, err := cache.NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			r := NewRunner(c, nil, nil)
			defer r.Close()

			direct, err := Extract(parser, []byte(text))
			if err != nil {
				t.Fatal(err)
			}
			cold, _, err := r.Extract(ctx, parser, []byte(text), false)
			if err != nil {
				t.Fatal(err)
			}
			warm, hit, err := r.Extract(ctx, parser, []byte(text), false)
			if err != nil || !hit {
				t.Fatalf("second Extract() hit = %v, err = %v", hit, err)
			}
			for _, g := range []*graph.Graph{cold, warm} {
				if diff := cmp.Diff(direct.Nodes(), g.Nodes()); diff != "" {
					t.Errorf("nodes mismatch (-want +got):\n%s", diff)
				}
				if diff := cmp.Diff(direct.Edges(), g.Edges()); diff != "" {
					t.Errorf("edges mismatch (-want +got):\n%s", diff)
				}
				if g.DroppedEdges() != direct.DroppedEdges() {
					t.Errorf("DroppedEdges() = %d, want %d", g.DroppedEdges(), direct.DroppedEdges())
				}
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Parser:   "theory",
		Input:    []byte(fifth),
		Validate: true,
		Layout:   layout.CircleOfFifths,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.GraphHash) != 64 {
		t.Errorf("GraphHash = %q", res.GraphHash)
	}
	if len(res.Issues) == 0 {
		t.Error("edgeless graph should report connectivity issues")
	}
	c, _ := res.Graph.Node("pc_C")
	if c.Position == nil {
		t.Error("pc_C was not positioned")
	}

	back, err := gio.ReadJSON(bytes.NewReader(res.Artifact))
	if err != nil {
		t.Fatalf("artifact is not graph JSON: %v", err)
	}
	if back.NodeCount() != res.Stats.NodeCount {
		t.Errorf("artifact NodeCount() = %d, want %d", back.NodeCount(), res.Stats.NodeCount)
	}
}

func TestRunnerExecuteTransform(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Input:     []byte(fifth),
		Transform: "T2",
		Format:    FormatDOT,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Graph.HasNode("pc_D") || !res.Graph.HasNode("pc_A") {
		t.Errorf("NodeIDs() = %v, want pc_D and pc_A", res.Graph.NodeIDs())
	}
	if !strings.HasPrefix(string(res.Artifact), "digraph G {") {
		t.Errorf("artifact = %q", res.Artifact)
	}
}

func TestRunnerExtractBatch(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	inputs := [][]byte{[]byte("C"), []byte("C and E"), []byte("C E G")}
	graphs, err := r.ExtractBatch(context.Background(), "theory", inputs)
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	var counts []int
	for _, g := range graphs {
		counts = append(counts, g.NodeCount())
	}
	if diff := cmp.Diff([]int{1, 2, 3}, counts); diff != "" {
		t.Errorf("node counts mismatch (-want +got):\n%s", diff)
	}

	if _, err := r.ExtractBatch(context.Background(), "diagram", inputs); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ExtractBatch(diagram) error = %v, want INVALID_INPUT", err)
	}
}

func TestRunnerLayoutAndCompareCache(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	g, _ := Extract("theory", []byte(fifth))

	if _, hit, err := r.Layout(ctx, g, layout.Tonnetz, layout.Params{"scale": 2.0}); err != nil || hit {
		t.Fatalf("Layout() hit = %v, err = %v", hit, err)
	}
	out, hit, err := r.Layout(ctx, g, layout.Tonnetz, layout.Params{"scale": 2.0})
	if err != nil || !hit {
		t.Fatalf("second Layout() hit = %v, err = %v", hit, err)
	}
	if n, _ := out.Node("pc_C"); n.Position == nil {
		t.Error("cached layout lost positions")
	}
	if _, _, err := r.Layout(ctx, g, "spiral", nil); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Layout(unknown) error = %v", err)
	}

	report, hit, _ := r.Compare(ctx, g, g, compare.Options{})
	if hit || report.Similarity.Structural != 1 {
		t.Fatalf("Compare() = %+v, hit %v", report.Similarity, hit)
	}
	if _, hit, _ := r.Compare(ctx, g, g, compare.Options{}); !hit {
		t.Error("second Compare() should hit the cache")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []string
}

func (h *recordingHooks) OnStageComplete(_ context.Context, stage, _ string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func TestRunnerEmitsStageHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{
		Input:    []byte(fifth),
		Optimize: true,
		Layout:   layout.Hierarchical,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"extract", "optimize", "layout", "render"}
	if diff := cmp.Diff(want, hooks.stages); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}
}

func TestFormats(t *testing.T) {
	for _, f := range []string{"json", "graphml", "yaml", "msgpack", "dot", "svg", "musicxml", "mei", "humdrum", "lilypond"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error = %v", f, err)
		}
		if Extension(f) == "" {
			t.Errorf("Extension(%q) is empty", f)
		}
	}
	if err := ValidateFormat("SVG"); err == nil {
		t.Error("formats are case-sensitive")
	}
}
