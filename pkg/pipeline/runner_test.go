package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/pearls/pkg/cache"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/observability"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil || r.Hooks == nil {
		t.Errorf("NewRunner should fill defaults: %+v", r)
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Rows: 6, Cols: 6, Seed: 99, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ComposeHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if len(first.Artifacts) != 2 || len(first.Artifacts[FormatSVG]) == 0 || len(first.Artifacts[FormatJSON]) == 0 {
		t.Fatalf("artifacts = %v", keys(first.Artifacts))
	}
	if first.Stats.Layers != 5 || first.Stats.FilledCells == 0 || first.Stats.Primitives < first.Stats.FilledCells {
		t.Errorf("stats = %+v", first.Stats)
	}
	if len(first.Hash) != 64 {
		t.Errorf("hash = %q", first.Hash)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ComposeHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs")
	}
	if second.Hash != first.Hash {
		t.Error("hash should be stable")
	}

	// A palette edit keeps the grids but re-renders.
	recolored := opts
	recolored.Colors = []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#00ffff"}
	third, err := r.Execute(ctx, recolored)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.ComposeHit || third.CacheInfo.RenderHit {
		t.Errorf("recolor: %+v, want compose hit and render miss", third.CacheInfo)
	}
	if third.Hash != first.Hash {
		t.Error("recoloring should not change the grids")
	}

	// A seed change regenerates.
	reseeded := opts
	reseeded.Seed = 100
	fourth, err := r.Execute(ctx, reseeded)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.ComposeHit {
		t.Error("new seed should miss the composition cache")
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Seed: 5}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ComposeHit {
		t.Error("Refresh should bypass the composition cache")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	ctx := context.Background()
	opts := Options{Rows: 7, Cols: 4, Density: Float64(0.5), Seed: 2024, Formats: []string{FormatSVG}}

	a, err := NewRunner(nil, nil, nil).Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, nil).Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Artifacts[FormatSVG], b.Artifacts[FormatSVG]) {
		t.Error("same options should render identical SVG")
	}
}

func TestExecuteInvalid(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Density: Float64(3)})
	if !perrors.Is(err, perrors.ErrCodeInvalidParameter) {
		t.Errorf("error = %v, want INVALID_PARAMETER", err)
	}
}

func TestRenderAllFormats(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	opts := Options{Size: 200, Formats: []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}, Title: "t"}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	prefixes := map[string]string{
		FormatSVG:  "<?xml",
		FormatPNG:  "\x89PNG",
		FormatPDF:  "%PDF-",
		FormatJSON: "{",
	}
	for format, prefix := range prefixes {
		if !bytes.HasPrefix(res.Artifacts[format], []byte(prefix)) {
			t.Errorf("%s output starts with %q", format, res.Artifacts[format][:min(8, len(res.Artifacts[format]))])
		}
	}
}

func TestRenderNodelinkDOT(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(ctx, Options{VizType: VizTypeNodelink, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	dot := string(res.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "graph G {") || !strings.Contains(dot, "cluster_4") {
		t.Errorf("unexpected DOT:\n%.200s", dot)
	}
}

func TestRenderUnsupported(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	comp, err := r.Compose(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Render(ctx, comp, Options{VizType: VizTypeNodelink, Formats: []string{FormatPDF}})
	if !perrors.Is(err, perrors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

func TestHashIgnoresStyle(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	a, err := r.Compose(ctx, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Compose(ctx, Options{Seed: 1, StrokeWidth: 4, Size: 300, Colors: []string{"#000", "#111", "#222", "#333", "#444"}})
	if err != nil {
		t.Fatal(err)
	}
	ha, _ := Hash(a)
	hb, _ := Hash(b)
	if ha != hb {
		t.Error("style should not affect the hash")
	}
}

// recordingHooks counts pipeline events.
type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	composed int
	rendered []string
}

func (h *recordingHooks) OnComposeComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	h.composed++
	h.mu.Unlock()
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ string, formats []string, _ time.Duration, _ error) {
	h.mu.Lock()
	h.rendered = append(h.rendered, formats...)
	h.mu.Unlock()
}

func TestRunnerHooks(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	hooks := &recordingHooks{}
	r.Hooks = hooks

	opts := Options{Formats: []string{FormatSVG}}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}
	if hooks.composed != 1 {
		t.Errorf("composed %d times, want 1", hooks.composed)
	}
	if len(hooks.rendered) != 1 || hooks.rendered[0] != FormatSVG {
		t.Errorf("rendered = %v, want [svg]", hooks.rendered)
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
