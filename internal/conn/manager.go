package conn

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/logger"
	"github.com/mholliday/wrench/pkg/sshutil"
)

// State is the connection lifecycle state. Exactly one value holds at any
// instant; transitions are driven only by the Manager.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// testCommand is the no-op used for liveness checks: a shell builtin with no
// output that always exits 0, so a failure can only mean the transport.
const testCommand = "true"

// Manager owns at most one live Session and the reconnection state machine
// around it.
//
// Two locks: mu guards every state field and is held only for short
// check-and-set windows, never while bytes move on the wire. connectMu
// serializes whole connect attempts (including the reconnection inside a
// failing Execute) so two callers can't dial over each other, while commands
// on an established session still run concurrently.
type Manager struct {
	connectMu sync.Mutex
	dialer    Dialer
	log       logger.Logger

	mu            sync.Mutex
	session       Session
	endpoint      *sshutil.Endpoint
	state         State
	everConnected bool // once true, stays true for the process lifetime
	reconnecting  bool // true only while a reconnection attempt is in flight
}

// New creates a Manager in the Disconnected state.
func New(dialer Dialer, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Noop()
	}
	return &Manager{
		dialer: dialer,
		log:    log,
		state:  StateDisconnected,
	}
}

// Connect opens a new session to the endpoint, replacing any prior session.
// The endpoint must carry exactly one credential; otherwise the call fails
// with an AUTH error and no state changes.
//
// On success the session and endpoint are stored, the state becomes
// Connected, and the ever-connected flag is set for good. On failure the
// session and endpoint are cleared and the state becomes Failed; the
// transport's own error is preserved as the cause.
func (m *Manager) Connect(ep sshutil.Endpoint) error {
	if n := ep.AuthMethodCount(); n != 1 {
		what := "no credential"
		if n > 1 {
			what = "more than one credential"
		}
		return errors.New(errors.ErrAuth,
			fmt.Sprintf("Server '%s' has %s configured", ep.Host, what),
			"Set exactly one of password or key_file for this server")
	}

	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	m.mu.Lock()
	if m.session != nil {
		m.session.Close() //nolint:errcheck // Cleanup, error not actionable
		m.session = nil
	}
	m.state = StateConnecting
	m.endpoint = &ep
	m.mu.Unlock()

	m.log.Debug("connecting to %s", ep)
	sess, err := m.dialer.Dial(ep)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.session = nil
		m.endpoint = nil
		m.state = StateFailed
		// A connect attempt may itself be the reconnection attempt;
		// the guard must never outlive a failed connect.
		m.reconnecting = false
		m.log.Debug("connect to %s failed: %v", ep, err)
		var werr *errors.Error
		if stderrors.As(err, &werr) {
			return err
		}
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't connect to %s", ep),
			"Check the server is up and the credentials are right")
	}

	m.session = sess
	m.endpoint = &ep
	m.state = StateConnected
	m.everConnected = true
	m.log.Debug("connected to %s", ep)
	return nil
}

// Disconnect closes the current session if present, ignoring close errors.
// Idempotent: disconnecting with no active session is a no-op that still
// leaves the manager in a clean Disconnected state. The ever-connected flag
// survives, so a later transient failure is still recognized as coming after
// a real connection.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Close() //nolint:errcheck // Best-effort teardown
		m.session = nil
	}
	m.endpoint = nil
	m.state = StateDisconnected
	m.reconnecting = false
}

// Execute runs a command over the current session and returns its decoded
// output. The captured output is also returned alongside a non-nil error
// when the command itself produced text before failing.
//
// If the command fails with a connection-classified error, the session has
// connected successfully before, an endpoint is on record, and no other
// reconnection is in flight, the manager reconnects inline and retries the
// command exactly once. Anything else surfaces the original error:
//
//	CONN      - no live session to run on
//	EXEC      - command failed, or a connection error not eligible for retry
//	RECONNECT - transport dropped and the reconnection attempt also failed
func (m *Manager) Execute(command string) (string, error) {
	var out string
	var runErr error

	for attempt := 0; attempt < 2; attempt++ {
		m.mu.Lock()
		if m.state != StateConnected || m.session == nil {
			m.mu.Unlock()
			return "", errors.New(errors.ErrConn,
				"Not connected to a server",
				"Connect to a server first, or check 'wrench status'")
		}
		sess := m.session
		m.mu.Unlock()

		out, runErr = sess.Output(command)
		if runErr == nil {
			return out, nil
		}

		ep, eligible := m.beginReconnect(runErr, attempt == 0)
		if !eligible {
			return out, errors.WrapWithCode(runErr, errors.ErrExec,
				fmt.Sprintf("Command failed: %s", command),
				"")
		}

		if recErr := m.reconnect(ep); recErr != nil {
			return "", errors.WrapWithCode(stderrors.Join(runErr, recErr), errors.ErrReconnect,
				fmt.Sprintf("Connection to %s dropped and reconnecting failed", ep),
				"Check the server is reachable, then connect again")
		}
		// Reconnected; loop once more with the fresh session.
	}

	return out, runErr
}

// beginReconnect decides auto-reconnect eligibility and, when eligible,
// claims the reconnection guard, discards the stale session, and forces the
// state to Disconnected - all in one critical section, so two concurrent
// failing commands can't both start reconnecting. Returns the endpoint to
// redial and whether the caller now owns the reconnection.
func (m *Manager) beginReconnect(cause error, firstAttempt bool) (sshutil.Endpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case !firstAttempt:
		// Retries are capped at exactly one.
		return sshutil.Endpoint{}, false
	case !IsConnectionError(cause):
		return sshutil.Endpoint{}, false
	case m.endpoint == nil:
		return sshutil.Endpoint{}, false
	case !m.everConnected:
		// Never auto-retry before the first successful connection:
		// this is what keeps a failing initial setup from turning
		// into a reconnect storm.
		return sshutil.Endpoint{}, false
	case m.reconnecting:
		// Someone else is already reconnecting; fail fast.
		return sshutil.Endpoint{}, false
	}

	m.reconnecting = true
	if m.session != nil {
		m.session.Close() //nolint:errcheck // Stale session, error not actionable
		m.session = nil
	}
	m.state = StateDisconnected
	return *m.endpoint, true
}

// reconnect redials the stored endpoint. The reconnection guard is released
// on every exit path, panics included.
func (m *Manager) reconnect(ep sshutil.Endpoint) error {
	defer func() {
		m.mu.Lock()
		m.reconnecting = false
		m.mu.Unlock()
	}()

	m.log.Debug("reconnecting to %s", ep)
	return m.Connect(ep)
}

// TestConnection runs a lightweight no-op command and reports whether it
// succeeded. A dropped transport can be transparently healed by Execute's
// reconnect path before the result is reported. Any failure moves the state
// to Failed.
func (m *Manager) TestConnection() bool {
	if _, err := m.Execute(testCommand); err != nil {
		m.mu.Lock()
		if m.session != nil {
			m.session.Close() //nolint:errcheck // Best-effort teardown
			m.session = nil
		}
		m.endpoint = nil
		m.state = StateFailed
		m.mu.Unlock()
		return false
	}
	return true
}

// SwitchToServer connects to the endpoint unless it is identity-equal to the
// currently connected one, in which case the live session is kept and no
// transport work happens.
func (m *Manager) SwitchToServer(ep sshutil.Endpoint) error {
	m.mu.Lock()
	if m.state == StateConnected && m.endpoint != nil && m.endpoint.Equal(ep) {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	return m.Connect(ep)
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Endpoint returns the current endpoint, if one is on record.
func (m *Manager) Endpoint() (sshutil.Endpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.endpoint == nil {
		return sshutil.Endpoint{}, false
	}
	return *m.endpoint, true
}

// Info renders the current (endpoint, state) pair as a status sentence.
// Pure projection: no state changes, no failure modes.
func (m *Manager) Info() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.endpoint == nil {
		return "Not connected to any server"
	}

	switch m.state {
	case StateConnecting:
		return fmt.Sprintf("Connecting to %s", m.endpoint)
	case StateConnected:
		return fmt.Sprintf("Connected to %s", m.endpoint)
	default:
		return fmt.Sprintf("Not connected (last endpoint %s)", m.endpoint)
	}
}
