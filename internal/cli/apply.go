package cli

import (
	"fmt"

	"github.com/questionwho42-jpg/foundry-ia/internal/patch"
	"github.com/questionwho42-jpg/foundry-ia/internal/rulesets"
	"github.com/spf13/cobra"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 2

func addTargetFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("target", "t", "", "File to patch (default: the rule set's target)")
}

// run resolves the set and target from flags and config, then runs it.
func (a *app) run(cmd *cobra.Command, name string, opts patch.RunOptions) (rulesets.Set, *patch.RunResult, error) {
	set, err := rulesets.Lookup(name)
	if err != nil {
		return set, nil, err
	}

	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		target = a.cfg.TargetOr(set.Target)
	}

	log := a.log.With("set", set.Name, "path", target)
	log.Debug("Running rule set", "dry_run", opts.DryRun, "backup", opts.Backup)

	res, err := patch.Run(target, set.Rules(), opts)
	if err != nil {
		log.Error("Patch failed", "error", err)
		return set, res, err
	}
	log.Info("Rule set finished",
		"state", string(res.State),
		"applied", res.Report.Count(patch.Applied),
		"already_applied", res.Report.Count(patch.AlreadyApplied),
		"anchor_missing", res.Report.Count(patch.AnchorMissing),
	)
	return set, res, nil
}

func (a *app) newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <rule-set>",
		Short: "Apply a rule set to its target file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			backup, _ := cmd.Flags().GetBool("backup")

			set, res, err := a.run(cmd, args[0], patch.RunOptions{
				DryRun: dryRun,
				Backup: backup || a.cfg.Backup,
			})
			if err != nil {
				return err
			}
			if tryJSON(cmd, res) {
				return nil
			}
			PrintRun(cmd.OutOrStdout(), set, res)
			return nil
		},
	}
	addTargetFlag(cmd)
	cmd.Flags().Bool("dry-run", false, "Evaluate rules without writing")
	cmd.Flags().Bool("backup", false, "Keep a .bak copy of the target")
	return cmd
}

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <rule-set>",
		Short: "Report which rules would still apply (exit 1 if any)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := a.run(cmd, args[0], patch.RunOptions{DryRun: true})
			if err != nil {
				return err
			}
			if !tryJSON(cmd, res) {
				PrintResults(cmd.OutOrStdout(), res.Report)
			}
			if res.Report.Pending() {
				return ErrPending
			}
			return nil
		},
	}
	addTargetFlag(cmd)
	return cmd
}

func (a *app) newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <rule-set>",
		Short: "Preview the changes a rule set would make",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := a.run(cmd, args[0], patch.RunOptions{DryRun: true})
			if err != nil {
				return err
			}

			diff := patch.Diff(res.Before, res.After, diffContext)
			if tryJSON(cmd, map[string]interface{}{"path": res.Path, "report": res.Report, "diff": diff}) {
				return nil
			}

			out := cmd.OutOrStdout()
			PrintResults(out, res.Report)
			fmt.Fprintln(out)
			PrintDiff(out, diff)
			return nil
		},
	}
	addTargetFlag(cmd)
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available rule sets",
		Run: func(cmd *cobra.Command, args []string) {
			sets := rulesets.All()

			type rule struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			}
			type entry struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Target      string `json:"target"`
				Rules       []rule `json:"rules"`
			}
			entries := make([]entry, 0, len(sets))
			rows := make([][]string, 0, len(sets))
			for _, s := range sets {
				var rules []rule
				for _, r := range s.Rules() {
					rules = append(rules, rule{Name: r.Name, Kind: r.Kind.String()})
				}
				entries = append(entries, entry{Name: s.Name, Description: s.Description, Target: s.Target, Rules: rules})
				rows = append(rows, []string{s.Name, s.Description, fmt.Sprintf("%d", len(rules))})
			}

			if tryJSON(cmd, entries) {
				return
			}
			RenderTable(cmd.OutOrStdout(), []string{"SET", "DESCRIPTION", "RULES"}, rows)
		},
	}
}
