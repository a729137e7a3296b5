package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/config"
	"github.com/mholliday/wrench/internal/doctor"
	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose local SSH and config issues",
	Long: `Run diagnostic checks against the local environment.

Checks config presence and validity, server credentials, SSH keys,
the SSH agent, known_hosts, and ~/.ssh/config parseability.

Exits non-zero when any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorCommand() error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		// A broken config is itself a finding; the config check reports it
		cfg = config.DefaultConfig()
	}

	checks := doctor.DefaultChecks(Config(), cfg)
	grouped := doctor.GroupByCategory(checks)

	categories := make([]string, 0, len(grouped))
	for cat := range grouped {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var all []doctor.CheckResult
	for _, cat := range categories {
		fmt.Println(lipgloss.NewStyle().Bold(true).Render(cat))

		results := doctor.RunAll(grouped[cat])
		for _, r := range results {
			fmt.Println("  " + renderCheckResult(r))
			if r.Suggestion != "" && r.Status != doctor.StatusPass {
				fmt.Println("    " + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(r.Suggestion))
			}
		}
		all = append(all, results...)
		fmt.Println()
	}

	fmt.Println(doctor.Summary(all))

	if doctor.HasFailures(all) {
		return errors.NewExitError(1)
	}
	return nil
}

func renderCheckResult(r doctor.CheckResult) string {
	var symbol string
	var color lipgloss.Color

	switch r.Status {
	case doctor.StatusPass:
		symbol = ui.SymbolSuccess
		color = ui.ColorSuccess
	case doctor.StatusWarn:
		symbol = ui.SymbolWarning
		color = ui.ColorWarning
	default:
		symbol = ui.SymbolFail
		color = ui.ColorError
	}

	return fmt.Sprintf("%s %s",
		lipgloss.NewStyle().Foreground(color).Render(symbol),
		r.Message,
	)
}
