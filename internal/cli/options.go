package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/pipeline"
	"github.com/matzehuels/pearls/pkg/preset"
)

// optionFlags holds the flags shared by every command that composes a
// picture. Values only count when the user set them; everything else
// comes from the preset and then from the pipeline defaults.
type optionFlags struct {
	presetPath string
	rows       int
	cols       int
	density    float64
	seed       uint64
	background string
	colors     string
	stroke     float64
	margin     float64
	size       float64
}

// bind registers the shared flags, including --preset, on cmd.
func (f *optionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.presetPath, "preset", "", "preset file (default $XDG_CONFIG_HOME/pearls/preset.toml)")
	f.bindCompose(cmd)
}

// bindCompose registers the grid and style flags on cmd.
func (f *optionFlags) bindCompose(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVarP(&f.rows, "rows", "r", 0, "grid rows (default 5)")
	fl.IntVarP(&f.cols, "cols", "c", 0, "grid columns (default 5)")
	fl.Float64VarP(&f.density, "density", "d", 0, "fraction of cells to fill per layer (default 0.25)")
	fl.Uint64VarP(&f.seed, "seed", "s", 0, "random seed (default: random)")
	fl.StringVar(&f.background, "background", "", "background color (hex)")
	fl.StringVar(&f.colors, "colors", "", "layer colors, bottom first (comma-separated hex)")
	fl.Float64Var(&f.stroke, "stroke", 0, "stroke width, 0 disables strokes")
	fl.Float64Var(&f.margin, "margin", 0, "margin as a fraction of the canvas width (default 0.1)")
	fl.Float64Var(&f.size, "size", 0, "canvas width in pixels (default 800)")
}

// resolve builds pipeline options from the preset overlaid with the flags
// the user changed. Without a seed from either source a random one is
// picked.
func (f *optionFlags) resolve(cmd *cobra.Command) (pipeline.Options, error) {
	p, err := f.loadPreset()
	if err != nil {
		return pipeline.Options{}, err
	}
	return f.resolveWith(cmd, p)
}

// resolveWith is resolve with an already loaded preset, which may be nil.
func (f *optionFlags) resolveWith(cmd *cobra.Command, p *preset.Preset) (pipeline.Options, error) {
	var opts pipeline.Options
	fl := cmd.Flags()
	if fl.Changed("rows") {
		opts.Rows = f.rows
	}
	if fl.Changed("cols") {
		opts.Cols = f.cols
	}
	if fl.Changed("density") {
		opts.Density = pipeline.Float64(f.density)
	}
	if fl.Changed("background") {
		opts.Background = f.background
	}
	if fl.Changed("colors") {
		opts.Colors = parseColors(f.colors)
	}
	if fl.Changed("margin") {
		opts.MarginFraction = pipeline.Float64(f.margin)
	}
	if fl.Changed("size") {
		opts.Size = f.size
	}

	if p != nil {
		p.Apply(&opts)
	}

	// Zero is a valid seed and stroke width, so these are set after Apply.
	if fl.Changed("stroke") {
		opts.StrokeWidth = f.stroke
	}
	switch {
	case fl.Changed("seed"):
		opts.Seed = f.seed
	case p != nil && p.Grid.Seed != nil:
		opts.Seed = *p.Grid.Seed
	default:
		opts.Seed = randomSeed()
	}
	return opts, nil
}

// loadPreset reads the preset named by --preset, or the default preset if
// it exists. It returns nil when there is nothing to load.
func (f *optionFlags) loadPreset() (*preset.Preset, error) {
	path, explicit := f.presetPath, f.presetPath != ""
	if !explicit {
		var err error
		if path, err = presetPath(); err != nil {
			return nil, nil
		}
	}
	p, err := preset.Load(path)
	if err != nil {
		if !explicit && perrors.Is(err, perrors.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load preset: %w", err)
	}
	return p, nil
}
