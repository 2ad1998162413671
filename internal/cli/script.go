package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/questionwho42-jpg/foundry-ia/internal/logger"
	"github.com/questionwho42-jpg/foundry-ia/internal/patch"
	"github.com/questionwho42-jpg/foundry-ia/internal/rulesets"
)

// RunScript runs one rule set against its fixed target and returns the
// process exit code. It backs the standalone patch commands, which take no
// arguments and read no configuration.
func RunScript(name string) int {
	configureColor(false)
	if err := logger.Init(logger.Config{Quiet: true, Component: name}); err != nil {
		PrintError(os.Stdout, err.Error())
		return 1
	}
	return runScript(os.Stdout, name, "")
}

// runScript runs the named set on target (or the set's default) and prints
// the outcome to w.
func runScript(w io.Writer, name, target string) int {
	set, err := rulesets.Lookup(name)
	if err != nil {
		PrintError(w, err.Error())
		return 1
	}
	if target == "" {
		target = set.Target
	}

	res, err := patch.Run(target, set.Rules(), patch.RunOptions{})
	if err != nil {
		slog.Error("Patch failed", "set", name, "path", target, "error", err)
		PrintResults(w, res.Report)
		PrintError(w, err.Error())
		return 1
	}

	PrintRun(w, set, res)
	return 0
}
