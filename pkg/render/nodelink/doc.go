// Package nodelink renders grid connectivity as node-link diagrams.
//
// # Overview
//
// Where the pearl sinks merge cells into smooth shapes, this package shows
// the structure underneath: each filled cell becomes a node pinned at its
// grid position and each 8-connected neighbor pair becomes an edge. It is
// useful for checking that a generated region is really connected and for
// seeing where the fallback fill left isolated cells.
//
// # Usage
//
// Convert one grid, or a whole composition, to DOT and render it:
//
//	dot := nodelink.ToDOT(grid, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
//	dot = nodelink.CompositionDOT(comp, nodelink.Options{})
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: label nodes with their cell and component index
//   - Fill: a single node color; by default nodes are colored per component
//   - Spacing: distance between cells, in inches
//
// # DOT Format
//
// The generated graph is undirected and uses the neato engine with pinned
// positions (pos="x,y!"), so the diagram keeps the grid's geometry. Axis
// edges are solid and diagonal edges dashed, mirroring bridges and concave
// blobs in the pearl rendering.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
