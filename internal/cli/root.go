package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/questionwho42-jpg/foundry-ia/internal/config"
	"github.com/questionwho42-jpg/foundry-ia/internal/logger"
	"github.com/spf13/cobra"
)

// ErrPending is returned by check when at least one rule would still apply.
var ErrPending = errors.New("patches pending")

// app carries state shared by all subcommands.
type app struct {
	version string
	cfg     config.Config
	log     *slog.Logger
}

// NewRootCmd creates the patchkit command with all subcommands.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version, log: slog.Default()}

	rootCmd := &cobra.Command{
		Use:   "patchkit",
		Short: "Guarded patches for the Foundry combat AI script",
		Long: titleStyle.Render("patchkit") + " " + lipgloss.NewStyle().Foreground(muted).Render(version) + "\n" +
			"  Applies idempotent text patches to the Gemini integration script.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(a.newApplyCmd())
	rootCmd.AddCommand(a.newCheckCmd())
	rootCmd.AddCommand(a.newDiffCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(a.newLogsCmd())
	rootCmd.AddCommand(a.newVersionCmd())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	a.cfg = config.Load()

	noColor, _ := cmd.Flags().GetBool("no-color")
	configureColor(noColor)

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		a.cfg.Debug = true
	}
	if err := logger.Init(logger.Config{
		LogDir: a.cfg.LogDir,
		Debug:  a.cfg.Debug,
		Quiet:  !a.cfg.Debug && a.cfg.LogDir == "",
		JSON:   a.cfg.LogJSON,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = logger.WithComponent("patchkit").With("run_id", uuid.NewString(), "command", cmd.Name())
	return nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "patchkit %s\n", a.version)
		},
	}
}

// tryJSON returns true if --json was set and data was printed
func tryJSON(cmd *cobra.Command, v interface{}) bool {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	if !jsonFlag {
		return false
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return true
}
