package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/pipeline"
	"github.com/matzehuels/pearls/pkg/raster"
)

// generateOutput is the JSON form of a generated composition.
type generateOutput struct {
	Seed   uint64          `json:"seed"`
	Rows   int             `json:"rows"`
	Cols   int             `json:"cols"`
	Hash   string          `json:"hash"`
	Layers []generateLayer `json:"layers"`
}

type generateLayer struct {
	Index  int          `json:"index"`
	Color  string       `json:"color"`
	Filled int          `json:"filled"`
	Grid   *raster.Grid `json:"grid"`
}

// generateCommand creates the generate command, which previews grids in
// the terminal without rendering any files.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags    optionFlags
		asJSON   bool
		byLayer  bool
		noCache  bool
		useColor bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate layer grids and preview them in the terminal",
		Long: `Generate one random connected grid per palette color and print a preview.

Each cell shows the topmost layer covering it. Use --layers to print every
layer on its own and --json to emit the grids for other tools.

Without --seed a random seed is chosen; it is printed so the result can be
reproduced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), opts, generateMode{
				json:    asJSON,
				byLayer: byLayer,
				color:   useColor,
				noCache: noCache,
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print grids as JSON")
	cmd.Flags().BoolVar(&byLayer, "layers", false, "print each layer separately")
	cmd.Flags().BoolVar(&useColor, "color", true, "color the preview with the palette")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type generateMode struct {
	json    bool
	byLayer bool
	color   bool
	noCache bool
}

// runGenerate composes the grids and writes the preview to w.
func (c *CLI) runGenerate(ctx context.Context, w io.Writer, opts pipeline.Options, mode generateMode) error {
	runner, err := c.newRunner(mode.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sw := startStopwatch(c.Logger)
	comp, cacheHit, err := runner.ComposeWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	sw.done("generated", "layers", len(comp.Layers), "cached", cacheHit)

	if mode.json {
		return writeGenerateJSON(w, comp, opts.Seed)
	}

	fmt.Fprintf(w, "%s %s\n", StyleDim.Render("seed"), StyleNumber.Render(fmt.Sprint(opts.Seed)))
	switch {
	case mode.byLayer:
		for _, l := range comp.Layers {
			fmt.Fprintf(w, "\n%s %s\n", StyleTitle.Render(fmt.Sprintf("layer %d", l.Index)), StyleDim.Render(l.Color))
			if mode.color {
				fmt.Fprint(w, layerPreview(l))
			} else {
				fmt.Fprintln(w, l.Grid.String())
			}
		}
	case mode.color:
		fmt.Fprint(w, "\n"+gridPreview(comp))
	default:
		fmt.Fprint(w, "\n"+plainPreview(comp))
	}
	fmt.Fprintln(w)
	printStats(pipeline.CompositionStats(comp), cacheHit)
	return nil
}

func writeGenerateJSON(w io.Writer, comp *composition.Composition, seed uint64) error {
	hash, err := pipeline.Hash(comp)
	if err != nil {
		return err
	}
	out := generateOutput{
		Seed:   seed,
		Rows:   comp.Rows,
		Cols:   comp.Cols,
		Hash:   hash,
		Layers: make([]generateLayer, len(comp.Layers)),
	}
	for i, l := range comp.Layers {
		out.Layers[i] = generateLayer{Index: l.Index, Color: l.Color, Filled: l.Grid.Filled(), Grid: l.Grid}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// plainPreview prints the topmost layer index per cell, or '.' for empty
// cells. Layers past 9 are shown as letters.
func plainPreview(comp *composition.Composition) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, 0, comp.Rows*(comp.Cols+1))
	for row := 0; row < comp.Rows; row++ {
		for col := 0; col < comp.Cols; col++ {
			ch := byte('.')
			for i, l := range comp.Layers {
				if l.Grid.At(row, col) {
					ch = digits[i%len(digits)]
				}
			}
			buf = append(buf, ch)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
