package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/questionwho42-jpg/foundry-ia/internal/patch"
	"github.com/questionwho42-jpg/foundry-ia/internal/rulesets"
)

func outcomeStyle(o patch.Outcome) lipgloss.Style {
	switch o {
	case patch.Applied:
		return appliedStyle
	case patch.AnchorMissing:
		return missingStyle
	case patch.Aborted:
		return abortStyle
	default:
		return skippedStyle
	}
}

// PrintResults writes one status line per evaluated rule.
func PrintResults(w io.Writer, report patch.Report) {
	for _, r := range report.Results {
		switch r.Outcome {
		case patch.Applied:
			PrintSuccess(w, r.Message)
		case patch.AnchorMissing:
			PrintWarning(w, r.Message)
		default:
			fmt.Fprintf(w, "%s %s\n", r.Outcome.Marker(), outcomeStyle(r.Outcome).Render(r.Message))
		}
	}
}

// PrintRun writes the rule lines followed by the set's summary. Nothing
// beyond the rule lines is printed for an aborted run.
func PrintRun(w io.Writer, set rulesets.Set, res *patch.RunResult) {
	PrintResults(w, res.Report)

	switch {
	case res.Report.Aborted:
		return
	case res.DryRun:
		n := res.Report.Count(patch.Applied)
		fmt.Fprintln(w)
		fmt.Fprintln(w, skippedStyle.Render(fmt.Sprintf("Dry run: %d rule(s) would apply, %s not written", n, res.Path)))
		return
	}

	if set.Summary != "" {
		fmt.Fprintf(w, "\n🎯 %s\n", titleStyle.Render(set.Summary))
	}
	if len(set.NextSteps) > 0 {
		fmt.Fprintln(w, "📝 Next steps:")
		for _, step := range set.NextSteps {
			fmt.Fprintf(w, "   %s\n", step)
		}
	}
}

// PrintDiff writes a coloured line diff.
func PrintDiff(w io.Writer, diff string) {
	if diff == "" {
		fmt.Fprintln(w, skippedStyle.Render("No changes"))
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(w, addLine.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(w, delLine.Render(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(w, hunk.Render(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}
