package raster

import (
	"math"
	"math/rand/v2"

	perrors "github.com/matzehuels/pearls/pkg/errors"
)

// Source is the random stream consumed by Generate. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform int in [0, n). n is always > 0.
	IntN(n int) int
}

// NewSource returns a deterministic PCG stream for seed. All layers of one
// composition share a single stream.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Seed-count range, inclusive. Equivalent to floor(uniform(2, 6)).
const (
	minSeeds = 2
	maxSeeds = 5
)

// directions lists the 8-connected neighbor offsets (dRow, dCol) in the
// order neighbors are collected. The order is part of the output contract.
var directions = [8][2]int{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// Trace records how a grid was produced.
type Trace struct {
	Target   int    // cells requested: max(1, floor(rows*cols*density)), capped at rows*cols
	Seeds    []Cell // seed cells in placement order
	Grown    int    // cells added by neighbor growth
	Fallback int    // cells added by the uniform fallback
}

// Target returns the number of cells Generate aims to fill.
func Target(rows, cols int, density float64) int {
	total := rows * cols
	return min(total, max(1, int(math.Floor(float64(total)*density))))
}

// Generate fills a new rows × cols grid with random connected regions
// covering at least Target(rows, cols, density) cells.
// Dimensions are checked by New only; the grid and the growth frontier
// both scale with rows*cols.
//
// Random draws happen in this fixed order:
//
//  1. seed count: 2 + IntN(4), capped at rows*cols
//  2. per seed: IntN(rows), IntN(cols), redrawn while the cell is occupied
//  3. growth, while below target with a non-empty frontier:
//     IntN(len(frontier)) picks a frontier cell; its empty neighbors are
//     collected in directions order; a dead end is swap-removed from the
//     frontier without a further draw, otherwise IntN(len(neighbors))
//     picks the cell to fill
//  4. fallback, while still below target: IntN(rows), IntN(cols), filled
//     when empty
//
// Seeds are always placed, so a low target can be exceeded by up to
// maxSeeds-1 cells.
func Generate(rows, cols int, density float64, rng Source) (*Grid, error) {
	g, _, err := GenerateTrace(rows, cols, density, rng)
	return g, err
}

// GenerateTrace is Generate that also reports the seeds and the growth and
// fallback counts.
func GenerateTrace(rows, cols int, density float64, rng Source) (*Grid, Trace, error) {
	if err := perrors.ValidateDensity(density); err != nil {
		return nil, Trace{}, err
	}
	g, err := New(rows, cols)
	if err != nil {
		return nil, Trace{}, err
	}
	if rng == nil {
		return nil, Trace{}, perrors.New(perrors.ErrCodeInvalidParameter, "random source is nil")
	}

	tr := Trace{Target: Target(rows, cols, density)}
	numSeeds := min(minSeeds+rng.IntN(maxSeeds-minSeeds+1), g.Size())

	frontier := make([]Cell, 0, tr.Target)
	for len(tr.Seeds) < numSeeds {
		c := Cell{Row: rng.IntN(rows), Col: rng.IntN(cols)}
		if g.At(c.Row, c.Col) {
			continue
		}
		g.Set(c.Row, c.Col, true)
		tr.Seeds = append(tr.Seeds, c)
		frontier = append(frontier, c)
	}
	filled := len(tr.Seeds)

	var neighbors [len(directions)]Cell
	for filled < tr.Target && len(frontier) > 0 {
		idx := rng.IntN(len(frontier))
		cur := frontier[idx]

		n := 0
		for _, d := range directions {
			nr, nc := cur.Row+d[0], cur.Col+d[1]
			if g.InBounds(nr, nc) && !g.At(nr, nc) {
				neighbors[n] = Cell{Row: nr, Col: nc}
				n++
			}
		}
		if n == 0 {
			last := len(frontier) - 1
			frontier[idx] = frontier[last]
			frontier = frontier[:last]
			continue
		}

		next := neighbors[rng.IntN(n)]
		g.Set(next.Row, next.Col, true)
		frontier = append(frontier, next)
		filled++
		tr.Grown++
	}

	for filled < tr.Target {
		r, c := rng.IntN(rows), rng.IntN(cols)
		if g.At(r, c) {
			continue
		}
		g.Set(r, c, true)
		filled++
		tr.Fallback++
	}

	return g, tr, nil
}
