package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pearls/pkg/composition"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/pipeline"
	"github.com/matzehuels/pearls/pkg/preset"
	"github.com/matzehuels/pearls/pkg/raster"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the interactive editor command.
func (c *CLI) tuiCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit a composition interactively",
		Long: `Edit a composition in the terminal.

Select a setting with the arrow keys and change it with left/right. Shape
settings (rows, cols, density, seed, layers) regenerate the grids; style
settings (stroke, margin, palette) reuse them.

Keys: r new seed, p new palette, s save svg+png, w write preset, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			m, err := newEditorModel(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return cmd.Context().Err()
			}
			return err
		},
	}

	flags.bind(cmd)
	return cmd
}

// =============================================================================
// EditorModel - Interactive composition editor
// =============================================================================

// editorField is one adjustable setting.
type editorField struct {
	name   string
	shape  bool // changes the grids rather than the style
	value  func(o *pipeline.Options) string
	adjust func(o *pipeline.Options, dir int)
}

var editorFields = []editorField{
	{
		name:   "rows",
		shape:  true,
		value:  func(o *pipeline.Options) string { return fmt.Sprint(o.Rows) },
		adjust: func(o *pipeline.Options, dir int) { o.Rows = clampInt(o.Rows+dir, 1, perrors.MaxGridSide) },
	},
	{
		name:   "cols",
		shape:  true,
		value:  func(o *pipeline.Options) string { return fmt.Sprint(o.Cols) },
		adjust: func(o *pipeline.Options, dir int) { o.Cols = clampInt(o.Cols+dir, 1, perrors.MaxGridSide) },
	},
	{
		name:   "density",
		shape:  true,
		value:  func(o *pipeline.Options) string { return fmt.Sprintf("%.2f", o.Params().Density) },
		adjust: func(o *pipeline.Options, dir int) {
			o.Density = pipeline.Float64(clampFloat(o.Params().Density+0.05*float64(dir), 0, 1))
		},
	},
	{
		name:   "seed",
		shape:  true,
		value:  func(o *pipeline.Options) string { return fmt.Sprint(o.Seed) },
		adjust: adjustSeed,
	},
	{
		name:   "layers",
		shape:  true,
		value:  func(o *pipeline.Options) string { return fmt.Sprint(len(o.Colors)) },
		adjust: adjustLayers,
	},
	{
		name:   "stroke",
		value:  func(o *pipeline.Options) string { return fmt.Sprintf("%.1f", o.StrokeWidth) },
		adjust: func(o *pipeline.Options, dir int) { o.StrokeWidth = clampFloat(o.StrokeWidth+0.5*float64(dir), 0, 20) },
	},
	{
		name:   "margin",
		value:  func(o *pipeline.Options) string { return fmt.Sprintf("%.2f", o.Style().MarginFraction) },
		adjust: func(o *pipeline.Options, dir int) {
			o.MarginFraction = pipeline.Float64(clampFloat(o.Style().MarginFraction+0.02*float64(dir), 0, 0.48))
		},
	},
}

// adjustSeed steps the seed, stopping at zero.
func adjustSeed(o *pipeline.Options, dir int) {
	switch {
	case dir > 0:
		o.Seed++
	case o.Seed > 0:
		o.Seed--
	}
}

// adjustLayers adds a color next to the last one or drops the top layer.
func adjustLayers(o *pipeline.Options, dir int) {
	n := len(o.Colors)
	switch {
	case dir > 0 && n < palette.MaxColors:
		extra := palette.Random(raster.NewSource(o.Seed+uint64(n)), 1).Colors[0]
		o.Colors = append(append([]string(nil), o.Colors...), extra)
	case dir < 0 && n > 1:
		o.Colors = append([]string(nil), o.Colors[:n-1]...)
	}
}

// EditorModel is the bubbletea model for the interactive editor.
type EditorModel struct {
	ctx      context.Context
	composer *composition.Composer
	opts     pipeline.Options
	cursor   int

	comp        *composition.Composition
	regenerated bool
	status      string
	err         error
}

// newEditorModel validates opts and composes the first picture.
func newEditorModel(ctx context.Context, opts pipeline.Options) (EditorModel, error) {
	opts.Formats = []string{pipeline.FormatSVG, pipeline.FormatPNG}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return EditorModel{}, err
	}
	m := EditorModel{ctx: ctx, composer: composition.NewComposer(), opts: opts}
	m = m.recompose()
	return m, m.err
}

// recompose rebuilds the composition, reusing grids when only the style
// changed.
func (m EditorModel) recompose() EditorModel {
	comp, regenerated, err := m.composer.Compose(m.opts.Params(), m.opts.Style())
	if err != nil {
		m.err = err
		return m
	}
	m.comp, m.regenerated, m.err = comp, regenerated, nil
	return m
}

type savedMsg struct {
	paths []string
	err   error
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(editorFields)-1 {
				m.cursor++
			}
		case "left", "h", "-":
			editorFields[m.cursor].adjust(&m.opts, -1)
			m.status = ""
			return m.recompose(), nil
		case "right", "l", "+":
			editorFields[m.cursor].adjust(&m.opts, 1)
			m.status = ""
			return m.recompose(), nil
		case "r":
			m.opts.Seed = randomSeed()
			m.status = ""
			return m.recompose(), nil
		case "p":
			pal := palette.Random(raster.NewSource(randomSeed()), len(m.opts.Colors))
			m.opts.Background, m.opts.Colors = pal.Background, pal.Colors
			m.status = ""
			return m.recompose(), nil
		case "s":
			m.status = "saving..."
			return m, m.save()
		case "w":
			m.status = m.writePreset()
		}
	case savedMsg:
		if msg.err != nil {
			m.status = StyleWarning.Render("save failed: " + msg.err.Error())
		} else {
			m.status = StyleSuccess.Render("saved " + strings.Join(msg.paths, ", "))
		}
	}
	return m, nil
}

// save renders the current composition in the background.
func (m EditorModel) save() tea.Cmd {
	comp, opts, ctx := m.comp, m.opts, m.ctx
	return func() tea.Msg {
		if comp == nil {
			return savedMsg{err: errors.New("nothing to save")}
		}
		artifacts, err := pipeline.Render(ctx, comp, opts)
		if err != nil {
			return savedMsg{err: err}
		}
		paths := outputPaths(opts.Formats, "", opts.Seed)
		var written []string
		for _, f := range opts.Formats {
			if err := writeFile(paths[f], artifacts[f]); err != nil {
				return savedMsg{err: err}
			}
			written = append(written, paths[f])
		}
		return savedMsg{paths: written}
	}
}

func (m EditorModel) writePreset() string {
	path, err := presetPath()
	if err == nil {
		err = writePreset(path, preset.FromOptions("tui", m.opts))
	}
	if err != nil {
		return StyleWarning.Render("write preset failed: " + err.Error())
	}
	return StyleSuccess.Render("wrote " + path)
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pearls"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ adjust  r seed  p palette  s save  w preset  q quit"))
	b.WriteString("\n\n")

	for i, f := range editorFields {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, f.name, f.value(&m.opts))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		if f.shape {
			b.WriteString(listDimStyle.Render("  shape"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(perrors.UserMessage(m.err)))
		b.WriteString("\n")
	} else if m.comp != nil {
		b.WriteString(gridPreview(m.comp))
		b.WriteString("\n")
		source := "grids reused"
		if m.regenerated {
			source = "grids regenerated"
		}
		b.WriteString(listDimStyle.Render(source))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
