package composition

import (
	"sync"

	"github.com/matzehuels/pearls/pkg/raster"
)

// Composer caches the grids of the last Params it saw. Style-only edits
// (colors, stroke, margin, size) reuse them; any Params change regenerates.
// A Composer is safe for concurrent use.
type Composer struct {
	mu     sync.Mutex
	params Params
	grids  []*raster.Grid
}

// NewComposer returns an empty Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose returns the composition for p and style. regenerated reports
// whether new grids were drawn.
func (c *Composer) Compose(p Params, style Style) (comp *Composition, regenerated bool, err error) {
	grids, regenerated, err := c.Grids(p)
	if err != nil {
		return nil, false, err
	}
	comp, err = Compose(grids, style)
	if err != nil {
		return nil, regenerated, err
	}
	return comp, regenerated, nil
}

// Grids returns the grids for p, generating them only when p differs from
// the previous call.
func (c *Composer) Grids(p Params) ([]*raster.Grid, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.grids != nil && c.params == p {
		return c.grids, false, nil
	}
	grids, err := Generate(p)
	if err != nil {
		return nil, false, err
	}
	c.params, c.grids = p, grids
	return grids, true, nil
}

// Reset drops the cached grids.
func (c *Composer) Reset() {
	c.mu.Lock()
	c.params, c.grids = Params{}, nil
	c.mu.Unlock()
}
