// Package render groups the output backends for compositions.
//
// # Overview
//
// Rendering is split by visualization type:
//
//   - [sink]: the pearls picture itself, as SVG, PNG, PDF or JSON
//   - [nodelink]: the grid connectivity as a Graphviz diagram (SVG, PNG, DOT)
//
// Both take a [composition.Composition] and never touch the random source,
// so rendering the same composition twice yields identical bytes.
//
// # Pearls Output
//
// Every sink paints through the same [sink.Canvas] in layer order, bottom
// layer first. Within a layer, shapes come in the order [shape.Render] emits
// them, and every shape of a layer shares one fill color.
//
//	svg := sink.RenderSVG(comp, sink.WithTitle("pearls 42"))
//	png, err := sink.RenderPNG(comp, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(comp)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders each layer's filled cells as nodes and
// 8-connected neighbor pairs as edges, one cluster per layer. Diagonal
// edges are dashed.
//
//	dot := nodelink.CompositionDOT(comp, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/render/sink
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/render/nodelink
// [shape.Render]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/shape#Render
// [sink.Canvas]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/render/sink#Canvas
// [composition.Composition]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/composition#Composition
package render
