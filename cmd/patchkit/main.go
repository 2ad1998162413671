package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/questionwho42-jpg/foundry-ia/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	root := cli.NewRootCmd(Version)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, cli.ErrPending) {
			cli.PrintError(os.Stderr, fmt.Sprintf("Error: %v", err))
		}
		os.Exit(1)
	}
}
