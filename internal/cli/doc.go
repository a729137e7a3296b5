// Package cli implements the wrench command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to workflow functions for the actual work. The CLI is the
// composition root: it constructs the one connection manager per
// invocation and injects the dialer and logger into it.
//
// # Command Structure
//
// The root command is "wrench" with subcommands for different operations:
//
//	wrench run [command]  - Run a command over the managed connection
//	wrench shell          - Interactive PTY shell
//	wrench status         - List servers and probe reachability
//	wrench check          - Verify the connection actually works
//	wrench hosts ...      - Manage the server list (list/add/remove/import)
//	wrench init           - Create a config with the first server
//	wrench doctor         - Diagnose local SSH and config issues
//	wrench version        - Print build information
//
// # Session Handling
//
// openManager in session.go handles the common phases shared by run and
// check: load config, resolve the server name (--host flag, configured
// default, or interactive picker), materialize the endpoint (reading the
// key file, prompting for a password when nothing is stored), and connect
// with progress display. Commands own the returned manager and disconnect
// it when done.
//
// # Flag Handling
//
// Global flags (--config, --quiet, --no-color) are defined on the root
// command and available to all subcommands. Command-specific flags like
// --host are defined on individual commands.
package cli
