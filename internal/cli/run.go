package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/util"
)

var (
	runHostFlag string
	runToolFlag bool
)

// DefaultToolPath is the remote helper binary invoked by 'run --tool'
// when the server entry doesn't override it with 'bin'.
const DefaultToolPath = "wrench-agent"

var runCmd = &cobra.Command{
	Use:   "run [command]",
	Short: "Run a command on the server",
	Long: `Execute a command over the managed SSH connection.

If the session has dropped since the last command, wrench reconnects
once and retries transparently. The command's own failures (non-zero
exit) are never retried; the exit code becomes wrench's exit code.

With --tool the arguments are passed to the server's helper binary
(configured per server with 'bin', default wrench-agent) instead of
being run as a shell command.

Examples:
  wrench run "df -h"
  wrench run --host web "systemctl status nginx"
  wrench run --tool status`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(args, runHostFlag, runToolFlag)
	},
}

func init() {
	runCmd.Flags().StringVar(&runHostFlag, "host", "", "target server name")
	runCmd.Flags().BoolVar(&runToolFlag, "tool", false, "invoke the server's helper binary")
	rootCmd.AddCommand(runCmd)
}

func runCommand(args []string, hostFlag string, tool bool) error {
	manager, _, err := openManager(hostFlag)
	if err != nil {
		return err
	}
	defer manager.Disconnect()

	command := strings.Join(args, " ")
	if tool {
		toolPath := DefaultToolPath
		if ep, ok := manager.Endpoint(); ok && ep.BinPath != "" {
			toolPath = ep.BinPath
		}
		command = util.ToolCommand(toolPath, args)
	}

	output, err := manager.Execute(command)

	// Show whatever the command produced, even when it failed
	if output != "" {
		fmt.Print(output)
		if !strings.HasSuffix(output, "\n") {
			fmt.Println()
		}
	}

	if err != nil {
		if code, ok := errors.GetExitCode(err); ok {
			return errors.NewExitError(code)
		}
		return err
	}

	return nil
}
