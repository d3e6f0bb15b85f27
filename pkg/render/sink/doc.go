// Package sink provides output format renderers for pearl compositions.
//
// # Overview
//
// A "sink" transforms a [composition.Composition] into a final output
// format. Vector and raster sinks share one drawing path: [Paint] walks
// every layer through [shape.Render] and issues calls on a [Canvas], which
// each format implements with its own graphics library.
//
//   - SVG: [RenderSVG], via github.com/ajstarks/svgo
//   - PNG: [RenderPNG], anti-aliased raster via github.com/fogleman/gg
//   - PDF: [RenderPDF], vector page via gonum.org/v1/plot/vg/vgpdf
//   - JSON: [RenderJSON], grids and primitive streams for external tools
//
// Basic usage:
//
//	comp, err := composition.New(params, style)
//	svg := sink.RenderSVG(comp, sink.WithTitle("pearls #123456789"))
//	png, err := sink.RenderPNG(comp, sink.WithScale(2))
//
// # Strokes
//
// A positive Style.StrokeWidth outlines each shape in its own layer color,
// which thickens the silhouette without visible seams inside a layer. Zero
// disables stroking.
//
// # Adding New Formats
//
// Implement [Canvas] for the target library and call [Paint]. Register the
// format in pkg/pipeline so the CLI and HTTP server pick it up.
//
// [composition.Composition]: github.com/matzehuels/pearls/pkg/composition.Composition
// [shape.Render]: github.com/matzehuels/pearls/pkg/shape.Render
package sink
