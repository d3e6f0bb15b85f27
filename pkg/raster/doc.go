// Package raster generates the occupancy grids behind a pearl composition.
//
// A [Grid] is a fixed rows × cols matrix of filled/empty cells. [Generate]
// grows random 8-connected regions from a handful of seed cells until a
// target density is met, backtracking out of dead ends, and falls back to
// uniform random filling if growth ever runs out of frontier. The random
// stream is an explicit [Source], so one seed reproduces the same grids:
//
//	rng := raster.NewSource(123456789)
//	for range layers {
//	    g, err := raster.Generate(5, 5, 0.25, rng) // stream advances per layer
//	    ...
//	}
//
// Grids also expose connectivity helpers ([Grid.Components],
// [Grid.Connected]) used by the connectivity view and by tests.
package raster
