package palette

// Source supplies uniform floats in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// Ranges for generated colors (saturation and lightness in percent).
const (
	bgSatMin, bgSatSpan     = 25, 15
	bgLightMin, bgLightSpan = 88, 8

	accentSatMin, accentSatSpan     = 65, 25
	accentLightMin, accentLightSpan = 38, 18
	accentHueJitter                 = 15
)

// Random returns a palette with a pale background and n accents. The
// accents sit at evenly spaced hues from a random base, each nudged by up
// to ±15°, so neighbouring layers stay distinguishable. n < 1 yields the
// default layer count.
func Random(rng Source, n int) Palette {
	if n < 1 {
		n = len(DefaultColors)
	}
	bg := HSLToHex(
		rng.Float64()*360,
		bgSatMin+rng.Float64()*bgSatSpan,
		bgLightMin+rng.Float64()*bgLightSpan,
	)

	base := rng.Float64() * 360
	step := 360 / float64(n)
	colors := make([]string, n)
	for i := range colors {
		hue := base + float64(i)*step + (rng.Float64()*2*accentHueJitter - accentHueJitter)
		sat := accentSatMin + rng.Float64()*accentSatSpan
		lit := accentLightMin + rng.Float64()*accentLightSpan
		colors[i] = HSLToHex(hue, sat, lit)
	}
	return Palette{Background: bg, Colors: colors}
}
