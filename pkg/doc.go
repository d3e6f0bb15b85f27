// Package pkg provides the core libraries for Pearls.
//
// # Overview
//
// Pearls generates random connected shapes on a grid, one per palette color,
// and draws them as overlapping layers of circles ("pearls") joined by
// bridges and concave blobs. The pkg directory is organized into three
// areas:
//
//  1. Domain logic: [raster], [shape], [palette], [composition]
//  2. Output: [render/sink], [render/nodelink]
//  3. Orchestration and infrastructure: [pipeline], [preset], [cache],
//     [gallery], [server], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	Options (flags, preset, HTTP query)
//	         ↓
//	    [raster] package (seeded grid generation, one grid per color)
//	         ↓
//	    [composition] package (layers + geometry + style)
//	         ↓
//	    [shape] package (pearls, bridges, blobs as primitives)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON output)
//
// The [pipeline] package wires these steps together behind a cache, and the
// [server] package exposes them over HTTP.
//
// # Quick Start
//
// Compose and render a picture:
//
//	import (
//	    "github.com/matzehuels/pearls/pkg/composition"
//	    "github.com/matzehuels/pearls/pkg/render/sink"
//	)
//
//	comp, err := composition.New(composition.Params{
//	    Rows:    5,
//	    Cols:    5,
//	    Density: 0.5,
//	    Seed:    42,
//	    Layers:  4,
//	}, composition.DefaultStyle())
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(comp)
//
// Or use the pipeline, which validates options and caches results:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Rows:    8,
//	    Cols:    8,
//	    Seed:    7,
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//
// # Determinism
//
// Every random decision is drawn from a seeded source created by
// [raster.NewSource]. The same parameters and seed always produce the same
// grids, so a seed is enough to reproduce a picture. Style settings (colors,
// stroke, margin, size) never affect the grids.
//
// [raster]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/raster
// [shape]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/shape
// [palette]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/palette
// [composition]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/composition
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/pipeline
// [preset]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/preset
// [cache]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/cache
// [gallery]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/gallery
// [server]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/errors
// [raster.NewSource]: https://pkg.go.dev/github.com/matzehuels/pearls/pkg/raster#NewSource
package pkg
