package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/ui"
	"github.com/mholliday/wrench/pkg/sshutil"
)

var shellHostFlag string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive shell on the server",
	Long: `Start an interactive login shell over SSH with a PTY.

The local terminal switches to raw mode for the duration of the
session and is restored on exit.

Examples:
  wrench shell
  wrench shell --host web`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shellCommand(shellHostFlag)
	},
}

func init() {
	shellCmd.Flags().StringVar(&shellHostFlag, "host", "", "target server name")
	rootCmd.AddCommand(shellCmd)
}

func shellCommand(hostFlag string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name, err := resolveServerName(cfg, hostFlag)
	if err != nil {
		return err
	}

	ep, err := materializeEndpoint(cfg, name)
	if err != nil {
		return err
	}

	if cfg.Connect.InsecureSkipHostKey {
		sshutil.StrictHostKeyChecking = false
	}

	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return errors.New(errors.ErrExec,
			"A shell needs a terminal on both ends",
			"Use 'wrench run' for non-interactive commands")
	}

	// The shell owns the transport directly; the managed connection is
	// for command execution, not interactive sessions.
	client, err := sshutil.DialEndpoint(ep, cfg.Connect.Timeout)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck // teardown is best-effort

	fd := int(os.Stdin.Fd())
	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't switch the terminal to raw mode",
			"Check that stdin is a real terminal")
	}
	defer term.Restore(fd, oldState) //nolint:errcheck // restoring is best-effort

	return client.Shell(os.Stdin, os.Stdout, os.Stderr, width, height)
}
