// Package preset reads and writes composition presets as TOML.
//
// A preset stores the settings a user wants to reuse: grid shape, palette
// and render options. The CLI loads one from
// $XDG_CONFIG_HOME/pearls/preset.toml (or --preset) and lets flags
// override individual values.
//
//	[grid]
//	rows = 8
//	cols = 8
//	density = 0.3
//	seed = 42
//
//	[style]
//	background = "#e8e4d9"
//	colors = ["#F1E9DA", "#2E294E", "#541388"]
//	stroke_width = 0
//
//	[render]
//	formats = ["svg", "png"]
package preset

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pearls/pkg/composition"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/pipeline"
)

// Preset is the on-disk form of reusable settings. Omitted values keep
// their defaults.
type Preset struct {
	Name   string `toml:"name,omitempty"`
	Grid   Grid   `toml:"grid"`
	Style  Style  `toml:"style"`
	Render Render `toml:"render"`
}

// Grid holds the shape parameters. A nil Seed means "pick one at random";
// a nil Density keeps the default, while 0 is kept as given.
type Grid struct {
	Rows    int      `toml:"rows,omitempty"`
	Cols    int      `toml:"cols,omitempty"`
	Density *float64 `toml:"density,omitempty"`
	Seed    *uint64  `toml:"seed,omitempty"`
}

// Style holds the drawing parameters.
type Style struct {
	Background     string   `toml:"background,omitempty"`
	Colors         []string `toml:"colors,omitempty"`
	StrokeWidth    float64  `toml:"stroke_width"`
	MarginFraction *float64 `toml:"margin_fraction,omitempty"`
	Size           float64  `toml:"size,omitempty"`
}

// Render holds output settings.
type Render struct {
	VizType string   `toml:"viz_type,omitempty"`
	Formats []string `toml:"formats,omitempty"`
	Scale   float64  `toml:"scale,omitempty"`
}

// Default returns a preset holding every default value, with no seed.
func Default() *Preset {
	pal := palette.Default()
	return &Preset{
		Name: "default",
		Grid: Grid{
			Rows:    composition.DefaultRows,
			Cols:    composition.DefaultCols,
			Density: pipeline.Float64(composition.DefaultDensity),
		},
		Style: Style{
			Background:     pal.Background,
			Colors:         pal.Colors,
			StrokeWidth:    composition.DefaultStrokeWidth,
			MarginFraction: pipeline.Float64(composition.DefaultMarginFraction),
			Size:           composition.DefaultSize,
		},
		Render: Render{
			VizType: pipeline.DefaultVizType,
			Formats: []string{pipeline.FormatSVG},
		},
	}
}

// Load reads a preset file. A missing file is a NOT_FOUND error.
func Load(path string) (*Preset, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, perrors.Wrap(perrors.ErrCodeNotFound, err, "preset %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPreset, err, "preset %s", path)
	}
	return p, nil
}

// Decode parses a preset and validates it. Unknown keys are rejected so
// typos do not go unnoticed.
func Decode(r io.Reader) (*Preset, error) {
	var p Preset
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPreset, err, "decode preset")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.New(perrors.ErrCodeInvalidPreset, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Encode writes p as TOML.
func Encode(w io.Writer, p *Preset) error {
	return toml.NewEncoder(w).Encode(p)
}

// Marshal returns p as TOML.
func (p *Preset) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks that the preset yields valid pipeline options.
func (p *Preset) Validate() error {
	var opts pipeline.Options
	p.Apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPreset, err, "invalid settings")
	}
	return nil
}

// Apply copies preset values into opts wherever opts still holds its zero
// value, so explicitly set options win over the preset.
func (p *Preset) Apply(opts *pipeline.Options) {
	setInt(&opts.Rows, p.Grid.Rows)
	setInt(&opts.Cols, p.Grid.Cols)
	setOptional(&opts.Density, p.Grid.Density)
	if opts.Seed == 0 && p.Grid.Seed != nil {
		opts.Seed = *p.Grid.Seed
	}

	setString(&opts.Background, p.Style.Background)
	if len(opts.Colors) == 0 {
		opts.Colors = slices.Clone(p.Style.Colors)
	}
	setFloat(&opts.StrokeWidth, p.Style.StrokeWidth)
	setOptional(&opts.MarginFraction, p.Style.MarginFraction)
	setFloat(&opts.Size, p.Style.Size)

	setString(&opts.VizType, p.Render.VizType)
	if len(opts.Formats) == 0 {
		opts.Formats = slices.Clone(p.Render.Formats)
	}
	setFloat(&opts.Scale, p.Render.Scale)
}

// FromOptions captures opts as a preset, including its seed.
func FromOptions(name string, opts pipeline.Options) *Preset {
	seed := opts.Seed
	return &Preset{
		Name: name,
		Grid: Grid{Rows: opts.Rows, Cols: opts.Cols, Density: cloneFloat(opts.Density), Seed: &seed},
		Style: Style{
			Background:     opts.Background,
			Colors:         slices.Clone(opts.Colors),
			StrokeWidth:    opts.StrokeWidth,
			MarginFraction: cloneFloat(opts.MarginFraction),
			Size:           opts.Size,
		},
		Render: Render{
			VizType: opts.VizType,
			Formats: slices.Clone(opts.Formats),
			Scale:   opts.Scale,
		},
	}
}

// setOptional fills an unset optional field with a copy of v.
func setOptional(dst **float64, v *float64) {
	if *dst == nil {
		*dst = cloneFloat(v)
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return pipeline.Float64(*v)
}

func setInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
