package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/questionwho42-jpg/foundry-ia/internal/logger"
	"github.com/spf13/cobra"
)

func (a *app) newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View patchkit logs",
		Long:  "View the rotating patchkit log. Requires log_dir in the config or PATCHKIT_LOG_DIR.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, _ := cmd.Flags().GetInt("lines")
			if lines < 0 {
				return fmt.Errorf("--lines must be zero or more, got %d", lines)
			}
			if a.cfg.LogDir == "" {
				return fmt.Errorf("no log directory configured")
			}
			logPath := filepath.Join(a.cfg.LogDir, logger.FileName)

			data, err := os.ReadFile(logPath)
			if err != nil {
				return fmt.Errorf("error reading log file: %w", err)
			}

			allLines := strings.Split(string(data), "\n")

			// Remove empty last line if present
			if len(allLines) > 0 && allLines[len(allLines)-1] == "" {
				allLines = allLines[:len(allLines)-1]
			}

			start := 0
			if len(allLines) > lines {
				start = len(allLines) - lines
			}

			out := cmd.OutOrStdout()
			for _, line := range allLines[start:] {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\n(Showing last %d lines of %d total. Use -n to adjust)\n", len(allLines)-start, len(allLines))
			return nil
		},
	}

	cmd.Flags().IntP("lines", "n", 50, "Number of lines to show")
	return cmd
}
