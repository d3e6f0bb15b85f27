package sink

import (
	"bytes"
	"fmt"
	"image/color"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/shape"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title string
}

// WithTitle embeds a <title> element, shown as a tooltip by browsers.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws comp as a standalone SVG document. Each layer is a <g>
// carrying its fill and stroke so shapes stay compact.
func RenderSVG(comp *composition.Composition, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	c := &svgCanvas{svg: svg.New(&buf), title: r.title}
	Paint(c, comp)
	c.svg.End()
	return buf.Bytes()
}

type svgCanvas struct {
	svg   *svg.SVG
	title string
	xs    []float64
	ys    []float64
}

func (c *svgCanvas) Begin(width, height float64, bg color.RGBA) {
	c.svg.Startview(width, height, 0, 0, width, height)
	if c.title != "" {
		c.svg.Title(c.title)
	}
	c.svg.Rect(0, 0, width, height, "fill:"+palette.Hex(bg))
}

func (c *svgCanvas) BeginLayer(index int, fill color.RGBA, strokeWidth float64) {
	hex := palette.Hex(fill)
	style := "fill:" + hex + ";stroke:none"
	if strokeWidth > 0 {
		style = fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g;stroke-linejoin:round", hex, hex, strokeWidth)
	}
	c.svg.Group(fmt.Sprintf(`id="layer-%d"`, index), fmt.Sprintf(`style="%s"`, style))
}

func (c *svgCanvas) Circle(cx, cy, r float64) { c.svg.Circle(cx, cy, r) }

func (c *svgCanvas) Rect(x, y, w, h float64) { c.svg.Rect(x, y, w, h) }

func (c *svgCanvas) Polygon(pts []shape.Point) {
	c.xs, c.ys = c.xs[:0], c.ys[:0]
	for _, p := range pts {
		c.xs = append(c.xs, p.X)
		c.ys = append(c.ys, p.Y)
	}
	c.svg.Polygon(c.xs, c.ys)
}

func (c *svgCanvas) EndLayer() { c.svg.Gend() }
