package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/pearls/pkg/composition"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/raster"
	"github.com/matzehuels/pearls/pkg/shape"
)

func testComposition(t *testing.T, stroke float64) *composition.Composition {
	t.Helper()
	style := composition.DefaultStyle()
	style.Size = 200
	style.StrokeWidth = stroke
	comp, err := composition.New(composition.Params{
		Rows: 5, Cols: 5, Density: 0.4, Seed: 123456789, Layers: 5,
	}, style)
	if err != nil {
		t.Fatal(err)
	}
	return comp
}

func totalCounts(comp *composition.Composition) map[shape.Kind]int {
	total := map[shape.Kind]int{}
	for i := range comp.Layers {
		for k, n := range shape.Counts(comp.Primitives(i)) {
			total[k] += n
		}
	}
	return total
}

// recorder is a Canvas that logs calls.
type recorder struct {
	calls []string
}

func (r *recorder) Begin(float64, float64, color.RGBA)      { r.log("begin") }
func (r *recorder) BeginLayer(int, color.RGBA, float64)     { r.log("layer") }
func (r *recorder) Circle(float64, float64, float64)        { r.log("circle") }
func (r *recorder) Rect(float64, float64, float64, float64) { r.log("rect") }
func (r *recorder) Polygon([]shape.Point)                   { r.log("polygon") }
func (r *recorder) EndLayer()                               { r.log("end") }
func (r *recorder) log(call string)                         { r.calls = append(r.calls, call) }

func TestPaintOrder(t *testing.T) {
	grid := raster.MustParse(`
		#.
		##`)
	style := composition.DefaultStyle()
	style.Palette.Colors = style.Palette.Colors[:1]
	comp, err := composition.Compose([]*raster.Grid{grid}, style)
	if err != nil {
		t.Fatal(err)
	}

	r := &recorder{}
	Paint(r, comp)
	want := "begin layer circle rect polygon circle rect circle end"
	if got := strings.Join(r.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

func TestRenderSVG(t *testing.T) {
	comp := testComposition(t, 0)
	out := string(RenderSVG(comp, WithTitle("pearls")))

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an SVG document:\n%.200s", out)
	}
	if !strings.Contains(out, "<title>pearls</title>") {
		t.Error("missing title")
	}

	counts := totalCounts(comp)
	if got := strings.Count(out, "<circle"); got != counts[shape.KindCircle] {
		t.Errorf("%d circles, want %d", got, counts[shape.KindCircle])
	}
	// One extra rect for the background.
	if got := strings.Count(out, "<rect"); got != counts[shape.KindBridgeRect]+1 {
		t.Errorf("%d rects, want %d", got, counts[shape.KindBridgeRect]+1)
	}
	if got := strings.Count(out, "<polygon"); got != counts[shape.KindConcaveBlob] {
		t.Errorf("%d polygons, want %d", got, counts[shape.KindConcaveBlob])
	}

	for i, l := range comp.Layers {
		if !strings.Contains(out, fmt.Sprintf(`id="layer-%d"`, i)) {
			t.Errorf("missing group for layer %d", i)
		}
		if !strings.Contains(out, "fill:"+palette.Hex(l.RGBA)) {
			t.Errorf("missing fill for layer %d (%s)", i, l.Color)
		}
	}
	if strings.Contains(out, "stroke-width") {
		t.Error("zero stroke width should not emit strokes")
	}
	if strings.Index(out, "layer-0") > strings.Index(out, "layer-4") {
		t.Error("layers should be emitted bottom first")
	}
}

func TestRenderSVGStroke(t *testing.T) {
	out := string(RenderSVG(testComposition(t, 3)))
	if !strings.Contains(out, "stroke-width:3") {
		t.Error("stroke width not applied")
	}
}

func TestRenderPNG(t *testing.T) {
	comp := testComposition(t, 0)
	data, err := RenderPNG(comp, WithScale(1))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("image is %dx%d, want 200x200", b.Dx(), b.Dy())
	}

	rgba := func(x, y int) color.RGBA {
		r, g, b, a := img.At(x, y).RGBA()
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}
	if got := rgba(1, 1); got != comp.Background {
		t.Errorf("corner pixel = %v, want background %v", got, comp.Background)
	}

	// Each filled cell center shows the topmost layer covering it.
	for row := 0; row < comp.Rows; row++ {
		for col := 0; col < comp.Cols; col++ {
			want, covered := comp.Background, false
			for _, l := range comp.Layers {
				if l.Grid.At(row, col) {
					want, covered = l.RGBA, true
				}
			}
			if !covered {
				continue
			}
			p := comp.Geometry.Center(row, col)
			if got := rgba(int(p.X), int(p.Y)); got != want {
				t.Errorf("cell (%d,%d) pixel = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestRenderPNGDefaultScale(t *testing.T) {
	data, err := RenderPNG(testComposition(t, 2))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 400 || cfg.Height != 400 {
		t.Errorf("default scale image is %dx%d, want 400x400", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGRasterLimit(t *testing.T) {
	tall, err := composition.New(composition.Params{
		Rows: perrors.MaxGridSide, Cols: 1, Density: 0.1, Seed: 1, Layers: 1,
	}, composition.Style{
		Palette:        palette.Palette{Background: "#ffffff", Colors: []string{"#000000"}},
		MarginFraction: 0.1,
		Size:           800,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		comp *composition.Composition
		opts []PNGOption
	}{
		{"tall grid", tall, nil},
		{"large scale", testComposition(t, 0), []PNGOption{WithScale(1000)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderPNG(tt.comp, tt.opts...)
			if !perrors.Is(err, perrors.ErrCodeInvalidParameter) {
				t.Errorf("error = %v, want INVALID_PARAMETER", err)
			}
		})
	}
}

func TestRenderPDF(t *testing.T) {
	for _, stroke := range []float64{0, 2} {
		data, err := RenderPDF(testComposition(t, stroke))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("stroke %v: output does not start with a PDF header", stroke)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	comp := testComposition(t, 1.5)
	params := composition.Params{Rows: 5, Cols: 5, Density: 0.4, Seed: 123456789, Layers: 5}
	data, err := RenderJSON(comp, WithJSONParams(params))
	if err != nil {
		t.Fatal(err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 200 || out.Rows != 5 || out.Cols != 5 || out.StrokeWidth != 1.5 {
		t.Errorf("header = %+v", out)
	}
	if out.Params == nil || out.Params.Seed != 123456789 {
		t.Errorf("params = %+v, want seed recorded", out.Params)
	}
	if out.Background != palette.Hex(comp.Background) {
		t.Errorf("background = %s", out.Background)
	}
	if len(out.Layers) != len(comp.Layers) {
		t.Fatalf("%d layers, want %d", len(out.Layers), len(comp.Layers))
	}
	for i, l := range out.Layers {
		prims := comp.Primitives(i)
		if len(l.Primitives) != len(prims) {
			t.Errorf("layer %d: %d primitives, want %d", i, len(l.Primitives), len(prims))
		}
		if !l.Grid.Equal(comp.Layers[i].Grid) {
			t.Errorf("layer %d grid mismatch", i)
		}
		for k, n := range shape.Counts(prims) {
			if l.Counts[string(k)] != n {
				t.Errorf("layer %d: count[%s] = %d, want %d", i, k, l.Counts[string(k)], n)
			}
		}
		for _, p := range l.Primitives {
			if len(p.Outline) != 0 {
				t.Fatal("outlines should be omitted by default")
			}
		}
	}
}

func TestRenderJSONOutlines(t *testing.T) {
	grid := raster.MustParse("#.\n.#")
	style := composition.DefaultStyle()
	style.Palette.Colors = style.Palette.Colors[:1]
	comp, err := composition.Compose([]*raster.Grid{grid}, style)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderJSON(comp, WithJSONOutlines())
	if err != nil {
		t.Fatal(err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	prims := out.Layers[0].Primitives
	if len(prims) != 3 || prims[1].Kind != shape.KindConcaveBlob {
		t.Fatalf("primitives = %+v", prims)
	}
	if len(prims[1].Outline) != 186 || prims[1].Corner != shape.DownRight {
		t.Errorf("blob outline has %d points, corner %s", len(prims[1].Outline), prims[1].Corner)
	}
}
