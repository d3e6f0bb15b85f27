package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pearls/pkg/composition"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints composition statistics on a single line.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d layers", stats.Layers),
		fmt.Sprintf("%d cells", stats.FilledCells),
		fmt.Sprintf("%d shapes", stats.Primitives),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Println(line)
}

// =============================================================================
// Grid Preview
// =============================================================================

const (
	glyphFilled = "●"
	glyphEmpty  = "·"
)

// gridPreview draws the composition as text: each cell shows the topmost
// layer covering it, in that layer's color.
func gridPreview(comp *composition.Composition) string {
	bg := lipgloss.NewStyle().Background(lipgloss.Color(comp.Style.Palette.Background))
	layerStyles := make([]lipgloss.Style, len(comp.Layers))
	for i, l := range comp.Layers {
		layerStyles[i] = bg.Foreground(lipgloss.Color(l.Color))
	}
	empty := bg.Foreground(colorDim)

	var b strings.Builder
	for row := 0; row < comp.Rows; row++ {
		for col := 0; col < comp.Cols; col++ {
			top := -1
			for i, l := range comp.Layers {
				if l.Grid.At(row, col) {
					top = i
				}
			}
			if top < 0 {
				b.WriteString(empty.Render(" " + glyphEmpty))
			} else {
				b.WriteString(layerStyles[top].Render(" " + glyphFilled))
			}
		}
		b.WriteString(bg.Render(" "))
		b.WriteString("\n")
	}
	return b.String()
}

// layerPreview draws one layer's grid in its color.
func layerPreview(l composition.Layer) string {
	filled := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color))
	var b strings.Builder
	for row := 0; row < l.Grid.Rows(); row++ {
		for col := 0; col < l.Grid.Cols(); col++ {
			if l.Grid.At(row, col) {
				b.WriteString(filled.Render(glyphFilled + " "))
			} else {
				b.WriteString(StyleDim.Render(glyphEmpty + " "))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Palette Swatches
// =============================================================================

// swatches renders the background and each layer color as a labeled
// block.
func swatches(p palette.Palette) string {
	var b strings.Builder
	b.WriteString(swatch(p.Background, "background"))
	for i, c := range p.Colors {
		b.WriteString(swatch(c, fmt.Sprintf("layer %d", i)))
	}
	return b.String()
}

func swatch(hex, label string) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
	return block + " " + StyleValue.Render(hex) + " " + StyleDim.Render(label) + "\n"
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
