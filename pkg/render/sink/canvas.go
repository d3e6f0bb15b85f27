package sink

import (
	"image/color"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/shape"
)

// Canvas is a drawing surface with y pointing down. Paint drives it; each
// output format implements it on top of its own graphics library.
type Canvas interface {
	// Begin sizes the canvas and fills it with the background.
	Begin(width, height float64, background color.RGBA)
	// BeginLayer sets the fill for the following shapes. A positive
	// strokeWidth also outlines each shape in the same color.
	BeginLayer(index int, fill color.RGBA, strokeWidth float64)
	Circle(cx, cy, r float64)
	Rect(x, y, w, h float64)
	Polygon(pts []shape.Point)
	EndLayer()
}

// Paint draws comp onto c, bottom layer first.
func Paint(c Canvas, comp *composition.Composition) {
	c.Begin(comp.Width, comp.Height, comp.Background)
	for _, l := range comp.Layers {
		c.BeginLayer(l.Index, l.RGBA, comp.Style.StrokeWidth)
		shape.Render(l.Grid, comp.Geometry, func(p shape.Primitive) {
			switch p := p.(type) {
			case shape.Circle:
				c.Circle(p.Center.X, p.Center.Y, p.Radius)
			case shape.BridgeRect:
				b := p.Bounds()
				c.Rect(b.Min.X, b.Min.Y, b.Width(), b.Height())
			case shape.ConcaveBlob:
				c.Polygon(p.Outline())
			}
		})
		c.EndLayer()
	}
}
