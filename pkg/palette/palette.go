// Package palette holds the background and layer colors of a composition.
//
// Colors are kept as hex strings so they survive TOML presets, JSON
// requests and gallery records unchanged; [ParseHex] converts them to
// [color.RGBA] at render time. [Random] produces a light background with
// saturated accents spread evenly around the hue wheel.
package palette

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	perrors "github.com/matzehuels/pearls/pkg/errors"
)

// DefaultBackground is the background of the default palette.
const DefaultBackground = "#e8e4d9"

// DefaultColors are the layer colors of the default palette, bottom first.
var DefaultColors = []string{"#F1E9DA", "#2E294E", "#541388", "#FFD400", "#D90368"}

// MaxColors bounds the number of layers a palette may define.
const MaxColors = 32

// Palette is a background color plus one color per layer, drawn in order.
type Palette struct {
	Background string   `json:"background" toml:"background" bson:"background"`
	Colors     []string `json:"colors" toml:"colors" bson:"colors"`
}

// Default returns the built-in five-layer palette.
func Default() Palette {
	return Palette{
		Background: DefaultBackground,
		Colors:     append([]string(nil), DefaultColors...),
	}
}

// Len returns the number of layer colors.
func (p Palette) Len() int { return len(p.Colors) }

// Clone returns a deep copy of p.
func (p Palette) Clone() Palette {
	return Palette{Background: p.Background, Colors: append([]string(nil), p.Colors...)}
}

// Validate checks that the background and every layer color parse and that
// there is at least one layer.
func (p Palette) Validate() error {
	if _, err := ParseHex(p.Background); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidColor, err, "background")
	}
	if len(p.Colors) == 0 {
		return perrors.New(perrors.ErrCodeInvalidColor, "palette needs at least one layer color")
	}
	if len(p.Colors) > MaxColors {
		return perrors.New(perrors.ErrCodeInvalidColor, "palette has %d colors, max %d", len(p.Colors), MaxColors)
	}
	for i, c := range p.Colors {
		if _, err := ParseHex(c); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidColor, err, "layer %d", i)
		}
	}
	return nil
}

// Normalize returns p with every color in lowercase #rrggbb form.
// Invalid colors are left untouched; call Validate first.
func (p Palette) Normalize() Palette {
	out := p.Clone()
	out.Background = normalizeHex(out.Background)
	for i, c := range out.Colors {
		out.Colors[i] = normalizeHex(c)
	}
	return out
}

// RGBA parses the background and layer colors.
func (p Palette) RGBA() (bg color.RGBA, layers []color.RGBA, err error) {
	if bg, err = ParseHex(p.Background); err != nil {
		return bg, nil, err
	}
	layers = make([]color.RGBA, len(p.Colors))
	for i, c := range p.Colors {
		if layers[i], err = ParseHex(c); err != nil {
			return bg, nil, err
		}
	}
	return bg, layers, nil
}

// ParseHex parses "#rrggbb" or "#rgb" (case-insensitive, leading '#'
// optional) into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, perrors.New(perrors.ErrCodeInvalidColor, "empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, perrors.New(perrors.ErrCodeInvalidColor, "invalid color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return color.RGBA{}, perrors.Wrap(perrors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats c as lowercase #rrggbb, ignoring alpha.
func Hex(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// HSLToHex converts hue (degrees, any value wraps), saturation and
// lightness (both 0..100) to a hex color.
func HSLToHex(h, s, l float64) string {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, clamp(s/100, 0, 1), clamp(l/100, 0, 1)).Clamped().Hex()
}

func normalizeHex(s string) string {
	c, err := ParseHex(s)
	if err != nil {
		return s
	}
	return Hex(c)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
