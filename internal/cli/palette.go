package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/raster"
)

// paletteCommand creates the palette command, which draws a random
// palette and prints it as swatches or as flags to reuse.
func (c *CLI) paletteCommand() *cobra.Command {
	var (
		count  int
		seed   uint64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Generate a random palette",
		Long: `Generate a random palette: a pale background and evenly spaced accent
colors, one per layer.

The palette is printed as swatches followed by the --background and
--colors flags that reproduce it with generate or render.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > palette.MaxColors {
				return perrors.New(perrors.ErrCodeInvalidParameter, "count must be in [1, %d], got %d", palette.MaxColors, count)
			}
			if !cmd.Flags().Changed("seed") {
				seed = randomSeed()
			}
			p := palette.Random(raster.NewSource(seed), count)
			if asJSON {
				return writePaletteJSON(cmd.OutOrStdout(), seed, p)
			}
			writePalette(cmd.OutOrStdout(), seed, p)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", len(palette.DefaultColors), "number of layer colors")
	cmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "random seed (default: random)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the palette as JSON")

	return cmd
}

func writePalette(w io.Writer, seed uint64, p palette.Palette) {
	fmt.Fprintf(w, "%s %s\n\n", StyleDim.Render("seed"), StyleNumber.Render(fmt.Sprint(seed)))
	fmt.Fprint(w, swatches(p))
	fmt.Fprintf(w, "\n%s\n", StyleHighlight.Render(paletteFlags(p)))
}

// paletteFlags formats p as command-line flags.
func paletteFlags(p palette.Palette) string {
	return fmt.Sprintf("--background %q --colors %q", p.Background, strings.Join(p.Colors, ","))
}

func writePaletteJSON(w io.Writer, seed uint64, p palette.Palette) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Seed    uint64          `json:"seed"`
		Palette palette.Palette `json:"palette"`
	}{seed, p})
}
