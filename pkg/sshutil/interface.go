package sshutil

import "io"

// SSHClient defines the command-execution surface of a live connection.
// Both the real Client and test fakes satisfy this interface, so code that
// runs remote commands doesn't need an actual SSH connection in tests.
type SSHClient interface {
	// Output runs a command and returns its combined decoded output.
	// A non-zero exit status is reported through errors.ExitError.
	Output(cmd string) (string, error)

	// Exec runs a command and returns stdout, stderr, and exit code.
	// Exit code is -1 if the command couldn't be executed at all.
	Exec(cmd string) (stdout, stderr []byte, exitCode int, err error)

	// ExecStream runs a command and streams output to the provided writers.
	ExecStream(cmd string, stdout, stderr io.Writer) (exitCode int, err error)

	// Close closes the SSH connection.
	Close() error

	// Endpoint returns the endpoint this client was dialed for.
	Endpoint() Endpoint
}
