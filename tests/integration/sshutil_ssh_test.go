package integration

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mholliday/wrench/pkg/sshutil"
)

func dialTest(t *testing.T) *sshutil.Client {
	t.Helper()
	ep := testEndpoint(t)

	client, err := sshutil.DialEndpoint(ep, 10*time.Second)
	require.NoError(t, err, "should connect to the test SSH server")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDialAndOutput(t *testing.T) {
	client := dialTest(t)

	out, err := client.Output("echo one two three")
	require.NoError(t, err)
	assert.Contains(t, out, "one two three")
}

func TestOutputCapturesStderr(t *testing.T) {
	client := dialTest(t)

	out, err := client.Output("echo oops >&2")
	require.NoError(t, err)
	assert.Contains(t, out, "oops")
}

func TestExecStreamSeparatesStreams(t *testing.T) {
	client := dialTest(t)

	var stdout, stderr bytes.Buffer
	exitCode, err := client.ExecStream("echo out; echo err >&2", &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "out")
	assert.Contains(t, stderr.String(), "err")
	assert.NotContains(t, stdout.String(), "err")
}

func TestExecNonZeroExit(t *testing.T) {
	client := dialTest(t)

	_, _, exitCode, err := client.Exec("exit 7")
	require.NoError(t, err, "non-zero exit is not a transport error")
	assert.Equal(t, 7, exitCode)
}

func TestDialBadCredentials(t *testing.T) {
	ep := testEndpoint(t)
	ep.Password = "definitely-wrong-password"
	ep.PrivateKey = nil

	_, err := sshutil.DialEndpoint(ep, 10*time.Second)
	require.Error(t, err)
}
