package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders section headings such as "Topology".
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight renders algorithm and template names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders values in key-value listings.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber renders scores and confidences.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	// quality scores from 0.8 up are good, below 0.5 poor
	styleQualityGood = lipgloss.NewStyle().Foreground(colorGreen)
	styleQualityFair = lipgloss.NewStyle().Foreground(colorYellow)
	styleQualityPoor = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	statSep     = " · "
)

// =============================================================================
// Terminal
// =============================================================================

// terminal writes styled status lines for humans. Machine-readable output
// (JSON, YAML, SVG) never goes through it.
type terminal struct {
	w io.Writer
}

func newTerminal(w io.Writer) *terminal { return &terminal{w: w} }

func (t *terminal) println(s string) { fmt.Fprintln(t.w, s) }

func (t *terminal) success(format string, args ...any) {
	t.println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (t *terminal) failure(format string, args ...any) {
	t.println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (t *terminal) warn(format string, args ...any) {
	t.println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (t *terminal) info(format string, args ...any) {
	t.println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line under the previous one.
func (t *terminal) detail(format string, args ...any) {
	t.println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (t *terminal) title(s string) { t.println(StyleTitle.Render(s)) }

func (t *terminal) blank() { t.println("") }

func (t *terminal) file(path string) {
	t.println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (t *terminal) keyValue(key, value string) {
	t.println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// item prints a name with a dimmed description below it.
func (t *terminal) item(name, description string) {
	t.println(StyleHighlight.Render(name))
	if description != "" {
		t.detail("%s", description)
	}
}

// stats prints graph size and layout metrics on one line.
func (t *terminal) stats(nodeCount, edgeCount int, m *layout.Metrics) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", edgeCount)),
	}
	if m != nil {
		parts = append(parts,
			StyleDim.Render(fmt.Sprintf("%d crossings", m.Crossings)),
			StyleDim.Render(fmt.Sprintf("%.0fx%.0f", m.Bounds.Width, m.Bounds.Height)),
			qualityStyle(m.Quality).Render(fmt.Sprintf("quality %.2f", m.Quality)))
	}
	t.println("  " + strings.Join(parts, StyleDim.Render(statSep)))
}

func (t *terminal) nextStep(description, cmd string) {
	t.println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func qualityStyle(q float64) lipgloss.Style {
	switch {
	case q >= 0.8:
		return styleQualityGood
	case q >= 0.5:
		return styleQualityFair
	default:
		return styleQualityPoor
	}
}
