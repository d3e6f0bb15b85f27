// Package composition stacks generated grids into colored layers.
//
// A composition is split into two halves that change at different rates:
//
//   - [Params] (rows, cols, density, seed, layer count) decide the shapes.
//     [Generate] draws one grid per layer from a single seeded stream.
//   - [Style] (palette, stroke, margin, canvas size) decides how the shapes
//     look. Changing it never touches the random stream.
//
// [Compose] binds grids to a style, and [Composer] remembers the last
// grids so that editing colors reuses them instead of regenerating.
package composition

import (
	"image/color"

	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/raster"
	"github.com/matzehuels/pearls/pkg/shape"
)

// Defaults applied by callers that build Params and Style from user input.
const (
	DefaultRows           = 5
	DefaultCols           = 5
	DefaultDensity        = 0.25
	DefaultSeed           = uint64(123456789)
	DefaultMarginFraction = 0.1
	DefaultSize           = 800.0
	DefaultStrokeWidth    = 0.0

	// MaxSeed bounds randomly chosen seeds so they stay easy to type.
	MaxSeed = 999_999_999
)

// Params are the inputs that determine the grids.
type Params struct {
	Rows    int     `json:"rows" toml:"rows" bson:"rows"`
	Cols    int     `json:"cols" toml:"cols" bson:"cols"`
	Density float64 `json:"density" toml:"density" bson:"density"`
	Seed    uint64  `json:"seed" toml:"seed" bson:"seed"`
	Layers  int     `json:"layers" toml:"layers" bson:"layers"`
}

// Validate checks the grid bounds, density and layer count.
func (p Params) Validate() error {
	if err := perrors.ValidateBoundedDimensions(p.Rows, p.Cols); err != nil {
		return err
	}
	if err := perrors.ValidateDensity(p.Density); err != nil {
		return err
	}
	if p.Layers < 1 || p.Layers > palette.MaxColors {
		return perrors.New(perrors.ErrCodeInvalidParameter, "layers must be in [1, %d], got %d", palette.MaxColors, p.Layers)
	}
	return nil
}

// Style are the inputs that only affect drawing.
type Style struct {
	Palette        palette.Palette `json:"palette" toml:"palette" bson:"palette"`
	StrokeWidth    float64         `json:"stroke_width" toml:"stroke_width" bson:"stroke_width"`
	MarginFraction float64         `json:"margin_fraction" toml:"margin_fraction" bson:"margin_fraction"`
	Size           float64         `json:"size" toml:"size" bson:"size"`
}

// DefaultStyle returns the default palette on an 800px canvas with a 10%
// margin and no stroke.
func DefaultStyle() Style {
	return Style{
		Palette:        palette.Default(),
		StrokeWidth:    DefaultStrokeWidth,
		MarginFraction: DefaultMarginFraction,
		Size:           DefaultSize,
	}
}

// Validate checks colors, stroke, margin and size.
func (s Style) Validate() error {
	if err := s.Palette.Validate(); err != nil {
		return err
	}
	if err := perrors.ValidateNonNegative("stroke_width", s.StrokeWidth); err != nil {
		return err
	}
	if err := perrors.ValidateFraction("margin_fraction", s.MarginFraction); err != nil {
		return err
	}
	return perrors.ValidateCanvasSize(s.Size)
}

// Generate draws p.Layers grids from one stream seeded with p.Seed. Layer
// i is the i-th grid drawn, so the same Params always yield the same stack.
func Generate(p Params) ([]*raster.Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rng := raster.NewSource(p.Seed)
	grids := make([]*raster.Grid, p.Layers)
	for i := range grids {
		g, err := raster.Generate(p.Rows, p.Cols, p.Density, rng)
		if err != nil {
			return nil, err
		}
		grids[i] = g
	}
	return grids, nil
}

// Geometry derives cell placement from the canvas width: the margin is a
// fraction of the width and the columns fill the rest.
func Geometry(style Style, cols int) shape.Geometry {
	margin := style.Size * style.MarginFraction
	return shape.Geometry{
		Margin: margin,
		Radius: (style.Size - 2*margin) / float64(cols) / 2,
	}
}

// Layer is one grid drawn in one color.
type Layer struct {
	Index int
	Grid  *raster.Grid
	Color string
	RGBA  color.RGBA
}

// Composition is a ready-to-draw stack of layers, bottom first.
// Grids are shared with the Composer that produced them and must not be
// modified.
type Composition struct {
	Rows, Cols    int
	Style         Style
	Geometry      shape.Geometry
	Width, Height float64
	Background    color.RGBA
	Layers        []Layer
}

// Compose binds grids to style. All grids must share dimensions and the
// palette must have exactly one color per grid.
func Compose(grids []*raster.Grid, style Style) (*Composition, error) {
	if len(grids) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidParameter, "no layers to compose")
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if n := style.Palette.Len(); n != len(grids) {
		return nil, perrors.New(perrors.ErrCodeInvalidParameter, "palette has %d colors for %d layers", n, len(grids))
	}

	rows, cols := grids[0].Rows(), grids[0].Cols()
	bg, colors, err := style.Palette.RGBA()
	if err != nil {
		return nil, err
	}

	geo := Geometry(style, cols)
	w, h := geo.Size(rows, cols)
	c := &Composition{
		Rows:       rows,
		Cols:       cols,
		Style:      style,
		Geometry:   geo,
		Width:      w,
		Height:     h,
		Background: bg,
		Layers:     make([]Layer, len(grids)),
	}
	for i, g := range grids {
		if g.Rows() != rows || g.Cols() != cols {
			return nil, perrors.New(perrors.ErrCodeInvalidParameter,
				"layer %d is %dx%d, want %dx%d", i, g.Rows(), g.Cols(), rows, cols)
		}
		c.Layers[i] = Layer{Index: i, Grid: g, Color: style.Palette.Colors[i], RGBA: colors[i]}
	}
	return c, nil
}

// New generates grids for p and composes them with style.
func New(p Params, style Style) (*Composition, error) {
	grids, err := Generate(p)
	if err != nil {
		return nil, err
	}
	return Compose(grids, style)
}

// Primitives returns the primitives of layer i.
func (c *Composition) Primitives(i int) []shape.Primitive {
	if i < 0 || i >= len(c.Layers) {
		return nil
	}
	return shape.Collect(c.Layers[i].Grid, c.Geometry)
}

// Walk emits every primitive of every layer, bottom layer first.
func (c *Composition) Walk(emit func(layer *Layer, p shape.Primitive)) {
	for i := range c.Layers {
		l := &c.Layers[i]
		shape.Render(l.Grid, c.Geometry, func(p shape.Primitive) { emit(l, p) })
	}
}

// Grids returns the layer grids in order.
func (c *Composition) Grids() []*raster.Grid {
	out := make([]*raster.Grid, len(c.Layers))
	for i, l := range c.Layers {
		out[i] = l.Grid
	}
	return out
}
