package conn

import (
	"time"

	"github.com/mholliday/wrench/pkg/sshutil"
)

// Session is a live authenticated transport able to run commands.
// It is exclusively owned by the Manager: no other component holds or
// closes it, all access goes command-at-a-time through Manager.Execute.
type Session interface {
	// Output runs a command and returns its decoded output.
	Output(cmd string) (string, error)

	// Close tears the session down. Close errors are ignored by the
	// Manager; cleanup is best-effort.
	Close() error
}

// Dialer opens a new Session for an endpoint. The production implementation
// dials SSH; tests substitute fakes.
type Dialer interface {
	Dial(ep sshutil.Endpoint) (Session, error)
}

// DefaultDialTimeout bounds how long a single connect attempt may take.
const DefaultDialTimeout = 10 * time.Second

// SSHDialer dials real SSH connections via pkg/sshutil.
type SSHDialer struct {
	Timeout time.Duration
}

func (d *SSHDialer) Dial(ep sshutil.Endpoint) (Session, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	client, err := sshutil.DialEndpoint(ep, timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}
