package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/ui"
)

var checkHostFlag string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the connection to a server actually works",
	Long: `Connect to a server and run a no-op command over the session.

If the session turns out to be stale, wrench reconnects once before
giving a verdict. Exits non-zero when the server is unreachable.

Examples:
  wrench check
  wrench check --host web`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkCommand(checkHostFlag)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkHostFlag, "host", "", "target server name")
	rootCmd.AddCommand(checkCmd)
}

func checkCommand(hostFlag string) error {
	manager, _, err := openManager(hostFlag)
	if err != nil {
		return err
	}
	defer manager.Disconnect()

	if !manager.TestConnection() {
		return errors.New(errors.ErrConn,
			"Connection check failed",
			"The server accepted the connection but commands don't run; check the account's shell")
	}

	fmt.Printf("%s %s\n", ui.SymbolSuccess, manager.Info())
	return nil
}
