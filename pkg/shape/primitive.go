package shape

import (
	"math"

	"github.com/matzehuels/pearls/pkg/raster"
)

// ArcStepDegrees is the angular sampling step of ConcaveBlob arcs. It is
// fixed so curve smoothness does not depend on the radius.
const ArcStepDegrees = 1

// Kind names a primitive type in serialized output.
type Kind string

// Primitive kinds.
const (
	KindCircle      Kind = "circle"
	KindBridgeRect  Kind = "bridge_rect"
	KindConcaveBlob Kind = "concave_blob"
)

// Point is a position in canvas pixels, y pointing down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Rect is an axis-aligned box given by its minimum and maximum corners.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns Max.X - Min.X.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns Max.Y - Min.Y.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Union returns the smallest Rect containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Primitive is one draw instruction. The set of implementations is closed:
// Circle, BridgeRect and ConcaveBlob.
type Primitive interface {
	Kind() Kind
	Bounds() Rect
	primitive()
}

// Circle is a filled cell.
type Circle struct {
	Cell   raster.Cell `json:"cell"`
	Center Point       `json:"center"`
	Radius float64     `json:"radius"`
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) primitive() {}

// Bounds returns the circle's bounding square.
func (c Circle) Bounds() Rect {
	return Rect{
		Min: Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius},
		Max: Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius},
	}
}

// Orientation is the axis along which a BridgeRect joins two cells.
type Orientation string

// Bridge orientations.
const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// BridgeRect fills the gap between two axis-adjacent circles. It is a
// square centered midway between the two cell centers with a half-extent
// of one radius, so it spans exactly from one center to the other and
// covers the full circle height.
type BridgeRect struct {
	From        raster.Cell `json:"from"`
	To          raster.Cell `json:"to"`
	Center      Point       `json:"center"`
	HalfExtent  float64     `json:"half_extent"`
	Orientation Orientation `json:"orientation"`
}

func (BridgeRect) Kind() Kind { return KindBridgeRect }
func (BridgeRect) primitive() {}

// Bounds returns the rectangle itself.
func (b BridgeRect) Bounds() Rect {
	return Rect{
		Min: Point{X: b.Center.X - b.HalfExtent, Y: b.Center.Y - b.HalfExtent},
		Max: Point{X: b.Center.X + b.HalfExtent, Y: b.Center.Y + b.HalfExtent},
	}
}

// Corner selects which diagonal a ConcaveBlob joins.
type Corner string

// Diagonal corners, relative to the upper cell.
const (
	DownRight Corner = "down_right"
	DownLeft  Corner = "down_left"
)

// ConcaveBlob joins two diagonally adjacent circles. Its outline runs
// between the four cell centers of the 2×2 block, with quarter-circle arcs
// carved around the two off-diagonal cells so the joint pinches smoothly.
type ConcaveBlob struct {
	From   raster.Cell `json:"from"`
	To     raster.Cell `json:"to"`
	Origin Point       `json:"origin"`
	Radius float64     `json:"radius"`
	Corner Corner      `json:"corner"`
}

func (ConcaveBlob) Kind() Kind { return KindConcaveBlob }
func (ConcaveBlob) primitive() {}

// Bounds returns the 2r × 2r box between the two cell centers.
func (b ConcaveBlob) Bounds() Rect {
	r := b.Radius
	minX := b.Origin.X
	if b.Corner == DownLeft {
		minX -= 2 * r
	}
	return Rect{
		Min: Point{X: minX, Y: b.Origin.Y},
		Max: Point{X: minX + 2*r, Y: b.Origin.Y + 2*r},
	}
}

// Outline returns the closed polygon of the blob in canvas coordinates.
// The last vertex connects back to the first.
//
// For DownRight, relative to Origin (the upper-left cell center):
// (0,r), the arc around (0,2r) from -90° to 0°, (r,2r), (2r,r), the arc
// around (2r,0) from 90° to 180°, (r,0). DownLeft is the mirror image.
func (b ConcaveBlob) Outline() []Point {
	r := b.Radius
	arc := func(cx, cy float64, from, to int) []Point {
		pts := make([]Point, 0, (to-from)/ArcStepDegrees+1)
		for a := from; a <= to; a += ArcStepDegrees {
			s, c := math.Sincos(float64(a) * math.Pi / 180)
			pts = append(pts, Point{X: r * (cx + c), Y: r * (cy + s)})
		}
		return pts
	}

	var rel []Point
	switch b.Corner {
	case DownLeft:
		rel = append(rel, Point{X: -r, Y: 0})
		rel = append(rel, arc(-2, 0, 0, 90)...)
		rel = append(rel, Point{X: -2 * r, Y: r}, Point{X: -r, Y: 2 * r})
		rel = append(rel, arc(0, 2, 180, 270)...)
		rel = append(rel, Point{X: 0, Y: r})
	default:
		rel = append(rel, Point{X: 0, Y: r})
		rel = append(rel, arc(0, 2, -90, 0)...)
		rel = append(rel, Point{X: r, Y: 2 * r}, Point{X: 2 * r, Y: r})
		rel = append(rel, arc(2, 0, 90, 180)...)
		rel = append(rel, Point{X: r, Y: 0})
	}

	out := make([]Point, len(rel))
	for i, p := range rel {
		out[i] = b.Origin.Add(p)
	}
	return out
}
