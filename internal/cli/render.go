package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pearls/pkg/pipeline"
)

// renderFlags holds the output flags of the render command.
type renderFlags struct {
	output   string
	formats  string
	vizType  string
	scale    float64
	title    string
	detailed bool
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command for writing image files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags optionFlags
		rf    renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a composition to SVG, PNG, PDF or JSON files",
		Long: `Render a composition to one or more files.

Pearls output (--type pearls, the default) supports svg, png, pdf and json.
The connectivity diagram (--type nodelink) supports svg, png and dot.

With a single format, --output names the file. With several formats it is
the base path and each file gets the format as its extension. Without
--output, files are named pearls-<seed>.<format>.

Grids and rendered files are cached, so changing only colors, stroke,
margin or size reuses the grids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(rf.formats)
			}
			if rf.vizType != "" {
				opts.VizType = rf.vizType
			}
			if rf.scale != 0 {
				opts.Scale = rf.scale
			}
			opts.Title = rf.title
			opts.Detailed = rf.detailed
			opts.Refresh = rf.refresh
			return c.runRender(cmd.Context(), opts, rf)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&rf.vizType, "type", "t", "", "visualization type: pearls (default), nodelink")
	cmd.Flags().Float64Var(&rf.scale, "scale", 0, "PNG pixel scale (default 2)")
	cmd.Flags().StringVar(&rf.title, "title", "", "SVG document title")
	cmd.Flags().BoolVar(&rf.detailed, "detailed", false, "label nodes with cell and component (nodelink)")
	cmd.Flags().BoolVar(&rf.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&rf.refresh, "refresh", false, "regenerate grids even if cached")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, rf renderFlags) error {
	runner, err := c.newRunner(rf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	vizType := opts.VizType
	if vizType == "" {
		vizType = pipeline.DefaultVizType
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", vizType))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}

	paths := outputPaths(opts.Formats, rf.output, opts.Seed)
	for _, format := range opts.Formats {
		spinner.SetMessage("Writing " + paths[format] + "...")
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			spinner.StopWithError("Write failed")
			return err
		}
	}
	spinner.Stop()

	printSuccess("Rendered %d file(s) with seed %s", len(opts.Formats), StyleNumber.Render(fmt.Sprint(opts.Seed)))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats, result.CacheInfo.ComposeHit && result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its file path.
func outputPaths(formats []string, output string, seed uint64) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, seed)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known extension from output, or names the file after
// the seed.
func basePath(output string, seed uint64) string {
	if output == "" {
		return fmt.Sprintf("%s-%d", appName, seed)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] || pipeline.ValidNodelinkFormats[ext] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
