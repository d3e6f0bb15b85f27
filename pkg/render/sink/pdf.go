package sink

import (
	"bytes"
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/shape"
)

// RenderPDF draws comp as a single-page vector PDF, one point per pixel.
func RenderPDF(comp *composition.Composition) ([]byte, error) {
	c := &pdfCanvas{}
	Paint(c, comp)

	var buf bytes.Buffer
	if _, err := c.pdf.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfCanvas flips y: PDF's origin is the bottom-left corner.
type pdfCanvas struct {
	pdf    *vgpdf.Canvas
	height float64
	stroke float64
}

func (c *pdfCanvas) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(c.height - y)}
}

func (c *pdfCanvas) Begin(width, height float64, bg color.RGBA) {
	c.pdf = vgpdf.New(vg.Length(width), vg.Length(height))
	c.height = height
	c.pdf.SetColor(bg)
	c.pdf.Fill(c.rectPath(0, 0, width, height))
}

func (c *pdfCanvas) BeginLayer(_ int, fill color.RGBA, strokeWidth float64) {
	c.pdf.SetColor(fill)
	c.stroke = strokeWidth
	if strokeWidth > 0 {
		c.pdf.SetLineWidth(vg.Length(strokeWidth))
	}
}

func (c *pdfCanvas) Circle(cx, cy, r float64) {
	var p vg.Path
	p.Move(c.pt(cx+r, cy))
	p.Arc(c.pt(cx, cy), vg.Length(r), 0, 2*math.Pi)
	p.Close()
	c.paint(p)
}

func (c *pdfCanvas) Rect(x, y, w, h float64) {
	c.paint(c.rectPath(x, y, w, h))
}

func (c *pdfCanvas) Polygon(pts []shape.Point) {
	if len(pts) == 0 {
		return
	}
	var p vg.Path
	p.Move(c.pt(pts[0].X, pts[0].Y))
	for _, q := range pts[1:] {
		p.Line(c.pt(q.X, q.Y))
	}
	p.Close()
	c.paint(p)
}

func (c *pdfCanvas) EndLayer() {}

func (c *pdfCanvas) rectPath(x, y, w, h float64) vg.Path {
	var p vg.Path
	p.Move(c.pt(x, y))
	p.Line(c.pt(x+w, y))
	p.Line(c.pt(x+w, y+h))
	p.Line(c.pt(x, y+h))
	p.Close()
	return p
}

func (c *pdfCanvas) paint(p vg.Path) {
	c.pdf.Fill(p)
	if c.stroke > 0 {
		c.pdf.Stroke(p)
	}
}
