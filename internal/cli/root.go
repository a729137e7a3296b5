package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/ui"
)

// Global flags
var (
	configFlag  string
	noColorFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "wrench",
	Short: "Remote server companion",
	Long: `wrench keeps one SSH connection to a server you care about and runs
commands over it, reconnecting transparently when the session drops.

Servers are stored in a config file (~/.config/wrench/config.yaml or
.wrench.yaml in the current directory). Run 'wrench init' to create one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag || !ui.ColorsEnabledByEnv() {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "minimize output")
}

// Config returns the --config flag value.
func Config() string { return configFlag }

// Quiet returns the --quiet flag value.
func Quiet() bool { return quietFlag }

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)

		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}
		os.Exit(1)
	}
}

// printError renders a structured error with its suggestion, or a plain
// message for anything else. Exit-code errors print nothing: the remote
// command's own output already said what went wrong.
func printError(err error) {
	if _, ok := errors.GetExitCode(err); ok {
		return
	}

	if werr, ok := err.(*errors.Error); ok {
		// Error() already renders the message/cause/suggestion layout
		fmt.Fprint(os.Stderr, werr.Error())
		return
	}

	fmt.Fprintf(os.Stderr, "%s %v\n", ui.SymbolFail, err)
}
