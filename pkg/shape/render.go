package shape

import (
	"github.com/matzehuels/pearls/pkg/raster"
)

// Geometry places grid cells on the canvas.
type Geometry struct {
	Margin float64 // offset of the grid from the canvas edge, both axes
	Radius float64 // circle radius; cells are 2*Radius apart
}

// Center returns the pixel center of cell (row, col):
// (margin + r + col*2r, margin + r + row*2r).
func (g Geometry) Center(row, col int) Point {
	d := 2 * g.Radius
	return Point{
		X: g.Margin + g.Radius + float64(col)*d,
		Y: g.Margin + g.Radius + float64(row)*d,
	}
}

// Size returns the canvas extent needed for a rows × cols grid.
func (g Geometry) Size(rows, cols int) (width, height float64) {
	d := 2 * g.Radius
	return 2*g.Margin + float64(cols)*d, 2*g.Margin + float64(rows)*d
}

// Render emits the primitives for every filled cell of grid in row-major
// order. Per cell the order is: Circle, right BridgeRect, down BridgeRect,
// down-right ConcaveBlob, down-left ConcaveBlob. Neighbors outside the
// grid are never consulted.
func Render(grid *raster.Grid, geo Geometry, emit func(Primitive)) {
	r := geo.Radius
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if !grid.At(row, col) {
				continue
			}
			cell := raster.Cell{Row: row, Col: col}
			p := geo.Center(row, col)

			emit(Circle{Cell: cell, Center: p, Radius: r})

			if col+1 < grid.Cols() && grid.At(row, col+1) {
				emit(BridgeRect{
					From:        cell,
					To:          raster.Cell{Row: row, Col: col + 1},
					Center:      Point{X: p.X + r, Y: p.Y},
					HalfExtent:  r,
					Orientation: Horizontal,
				})
			}
			if row+1 < grid.Rows() && grid.At(row+1, col) {
				emit(BridgeRect{
					From:        cell,
					To:          raster.Cell{Row: row + 1, Col: col},
					Center:      Point{X: p.X, Y: p.Y + r},
					HalfExtent:  r,
					Orientation: Vertical,
				})
			}
			if row+1 < grid.Rows() && col+1 < grid.Cols() && grid.At(row+1, col+1) {
				emit(ConcaveBlob{
					From:   cell,
					To:     raster.Cell{Row: row + 1, Col: col + 1},
					Origin: p,
					Radius: r,
					Corner: DownRight,
				})
			}
			if row+1 < grid.Rows() && col-1 >= 0 && grid.At(row+1, col-1) {
				emit(ConcaveBlob{
					From:   cell,
					To:     raster.Cell{Row: row + 1, Col: col - 1},
					Origin: p,
					Radius: r,
					Corner: DownLeft,
				})
			}
		}
	}
}

// Collect returns the primitives Render would emit.
func Collect(grid *raster.Grid, geo Geometry) []Primitive {
	var out []Primitive
	Render(grid, geo, func(p Primitive) { out = append(out, p) })
	return out
}

// Counts tallies primitives by kind.
func Counts(prims []Primitive) map[Kind]int {
	out := make(map[Kind]int, 3)
	for _, p := range prims {
		out[p.Kind()]++
	}
	return out
}
