package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/raster"
)

// componentColors fill nodes by connected component when no layer color
// is given.
var componentColors = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3",
	"#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd",
}

// Options configures connectivity diagram rendering.
type Options struct {
	// Detailed labels each node with its cell and component index.
	// When false, nodes are unlabeled dots.
	Detailed bool

	// Fill colors every node. When empty, nodes are colored by component.
	Fill string

	// Spacing is the distance between neighboring cells in inches.
	// Zero means 0.6.
	Spacing float64
}

func (o Options) spacing() float64 {
	if o.Spacing > 0 {
		return o.Spacing
	}
	return 0.6
}

// ToDOT converts a grid to an undirected Graphviz graph: one node per
// filled cell, pinned at its grid position, and one edge per 8-connected
// neighbor pair. Axis edges (drawn as bridges) are solid, diagonal edges
// (drawn as concave blobs) are dashed.
func ToDOT(g *raster.Grid, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	writeGrid(&buf, g, "", 0, opts)
	buf.WriteString("}\n")
	return buf.String()
}

// CompositionDOT lays the layers of comp side by side, bottom layer on
// the left, each in its own color.
func CompositionDOT(comp *composition.Composition, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	for _, l := range comp.Layers {
		layerOpts := opts
		layerOpts.Fill = l.Color
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", l.Index)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("layer %d", l.Index))
		writeGrid(&buf, l.Grid, fmt.Sprintf("l%d_", l.Index), float64(l.Index*(comp.Cols+1)), layerOpts)
		buf.WriteString("  }\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.4, fontsize=8, label=\"\"];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")
}

func writeGrid(buf *bytes.Buffer, g *raster.Grid, prefix string, xOffset float64, opts Options) {
	s := opts.spacing()
	labels := g.Labels()
	id := func(c raster.Cell) string { return fmt.Sprintf("%sr%dc%d", prefix, c.Row, c.Col) }

	for _, c := range g.Cells() {
		comp := labels[c.Row*g.Cols()+c.Col]
		attrs := fmt.Sprintf("pos=\"%.2f,%.2f!\"", (xOffset+float64(c.Col))*s, float64(-c.Row)*s)
		fill := opts.Fill
		if fill == "" {
			fill = componentColors[comp%len(componentColors)]
		}
		attrs += fmt.Sprintf(", fillcolor=%q", fill)
		if opts.Detailed {
			attrs += fmt.Sprintf(", label=%q", fmt.Sprintf("%d,%d\nc%d", c.Row, c.Col, comp))
		}
		fmt.Fprintf(buf, "  %q [%s];\n", id(c), attrs)
	}

	buf.WriteString("\n")
	for _, e := range Edges(g) {
		style := "solid"
		if e.Diagonal() {
			style = "dashed"
		}
		fmt.Fprintf(buf, "  %q -- %q [style=%s];\n", id(e.From), id(e.To), style)
	}
}

// Edge joins two 8-connected filled cells.
type Edge struct {
	From, To raster.Cell
}

// Diagonal reports whether the cells touch only at a corner.
func (e Edge) Diagonal() bool {
	return e.From.Row != e.To.Row && e.From.Col != e.To.Col
}

// Edges lists every neighbor pair once, in the order the shape renderer
// visits them: per cell in row-major order, right, down, down-right,
// down-left.
func Edges(g *raster.Grid) []Edge {
	var out []Edge
	for _, c := range g.Cells() {
		for _, d := range [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}} {
			n := raster.Cell{Row: c.Row + d[0], Col: c.Col + d[1]}
			if g.At(n.Row, n.Col) {
				out = append(out, Edge{From: c, To: n})
			}
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine,
// which honors the pinned node positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG with Graphviz's built-in rasterizer.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(ctx context.Context, dot string, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
