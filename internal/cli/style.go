package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Styles
var (
	// Colors
	highlight  = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning    = lipgloss.AdaptiveColor{Light: "#F29F05", Dark: "#F29F05"}
	errorColor = lipgloss.AdaptiveColor{Light: "#E05252", Dark: "#E05252"}
	muted      = lipgloss.Color("240")

	titleStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(0, 1)

	appliedStyle = lipgloss.NewStyle().Foreground(special)
	skippedStyle = lipgloss.NewStyle().Foreground(muted)
	missingStyle = lipgloss.NewStyle().Foreground(warning)
	abortStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	addLine = lipgloss.NewStyle().Foreground(special)
	delLine = lipgloss.NewStyle().Foreground(errorColor)
	hunk    = lipgloss.NewStyle().Foreground(muted)
)

// configureColor turns styling off when asked to or when stdout is not a
// terminal.
func configureColor(noColor bool) {
	fd := os.Stdout.Fd()
	if noColor || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Helper functions for common output patterns

func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "✅ %s\n", appliedStyle.Render(msg))
}

func PrintError(w io.Writer, msg string) {
	fmt.Fprintf(w, "❌ %s\n", abortStyle.Render(msg))
}

func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "⚠️  %s\n", missingStyle.Render(msg))
}

// RenderTable prints rows under bold headers with padded columns.
func RenderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Fprint(w, headerStyle.Width(widths[i]+2).Render(h))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprint(w, lipgloss.NewStyle().Width(widths[i]+2).Padding(0, 1).Render(cell))
			}
		}
		fmt.Fprintln(w)
	}
}
