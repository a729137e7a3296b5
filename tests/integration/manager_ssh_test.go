package integration

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mholliday/wrench/internal/conn"
	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/logger"
	"github.com/mholliday/wrench/pkg/sshutil"
)

func newTestManager(t *testing.T) (*conn.Manager, sshutil.Endpoint) {
	t.Helper()
	ep := testEndpoint(t)
	manager := conn.New(&conn.SSHDialer{Timeout: 10 * time.Second}, logger.Noop())
	t.Cleanup(manager.Disconnect)
	return manager, ep
}

func TestManagerConnectAndExecute(t *testing.T) {
	manager, ep := newTestManager(t)

	require.NoError(t, manager.Connect(ep))
	assert.Equal(t, conn.StateConnected, manager.State())

	out, err := manager.Execute("echo hello from wrench")
	require.NoError(t, err)
	assert.Contains(t, out, "hello from wrench")
}

func TestManagerExecuteExitCode(t *testing.T) {
	manager, ep := newTestManager(t)
	require.NoError(t, manager.Connect(ep))

	_, err := manager.Execute("exit 3")
	require.Error(t, err)

	code, ok := errors.GetExitCode(err)
	require.True(t, ok, "error chain should carry the exit code")
	assert.Equal(t, 3, code)

	// The command failed; the session didn't, so it stays usable
	assert.Equal(t, conn.StateConnected, manager.State())

	out, err := manager.Execute("echo still alive")
	require.NoError(t, err)
	assert.Contains(t, out, "still alive")
}

func TestManagerTestConnection(t *testing.T) {
	manager, ep := newTestManager(t)
	require.NoError(t, manager.Connect(ep))

	assert.True(t, manager.TestConnection())
}

func TestManagerDisconnectThenExecute(t *testing.T) {
	manager, ep := newTestManager(t)
	require.NoError(t, manager.Connect(ep))

	manager.Disconnect()
	assert.Equal(t, conn.StateDisconnected, manager.State())

	_, err := manager.Execute("echo nope")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConn))
}

// recordingDialer wraps the real dialer, remembering every session it
// hands out so tests can kill the transport out from under the manager.
type recordingDialer struct {
	inner conn.Dialer

	mu       sync.Mutex
	sessions []conn.Session
}

func (d *recordingDialer) Dial(ep sshutil.Endpoint) (conn.Session, error) {
	sess, err := d.inner.Dial(ep)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.sessions = append(d.sessions, sess)
	d.mu.Unlock()
	return sess, nil
}

func (d *recordingDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

func (d *recordingDialer) killLatest() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sessions) > 0 {
		_ = d.sessions[len(d.sessions)-1].Close()
	}
}

func TestManagerReconnectAfterTransportDrop(t *testing.T) {
	ep := testEndpoint(t)

	dialer := &recordingDialer{inner: &conn.SSHDialer{Timeout: 10 * time.Second}}
	manager := conn.New(dialer, logger.Noop())
	t.Cleanup(manager.Disconnect)

	require.NoError(t, manager.Connect(ep))
	require.Equal(t, 1, dialer.dialCount())

	// Kill the transport behind the manager's back
	dialer.killLatest()

	// The next command hits a dead session, reconnects once, and retries
	out, err := manager.Execute("echo recovered")
	require.NoError(t, err)
	assert.Contains(t, out, "recovered")
	assert.Equal(t, 2, dialer.dialCount(), "one reconnect dial")
	assert.Equal(t, conn.StateConnected, manager.State())
}

func TestManagerSwitchToSameServerIsNoop(t *testing.T) {
	ep := testEndpoint(t)

	dialer := &recordingDialer{inner: &conn.SSHDialer{Timeout: 10 * time.Second}}
	manager := conn.New(dialer, logger.Noop())
	t.Cleanup(manager.Disconnect)

	require.NoError(t, manager.Connect(ep))
	require.NoError(t, manager.SwitchToServer(ep))

	assert.Equal(t, 1, dialer.dialCount(), "switching to the current server should not redial")
}
