package integration

import (
	"os"
	"strconv"
	"testing"

	"github.com/mholliday/wrench/pkg/sshutil"
)

// RequireSSH skips the test unless a test SSH server is configured via
// the environment:
//
//	WRENCH_TEST_SSH_HOST      hostname or IP (required)
//	WRENCH_TEST_SSH_PORT      port (default 22)
//	WRENCH_TEST_SSH_USER      login user (required)
//	WRENCH_TEST_SSH_KEY       path to a private key file
//	WRENCH_TEST_SSH_PASSWORD  password (used when no key is set)
func RequireSSH(t *testing.T) {
	t.Helper()
	if os.Getenv("WRENCH_TEST_SSH_HOST") == "" {
		t.Skip("Skipping: WRENCH_TEST_SSH_HOST not set (SSH test server not available)")
	}
	if os.Getenv("WRENCH_TEST_SSH_USER") == "" {
		t.Skip("Skipping: WRENCH_TEST_SSH_USER not set")
	}
	if os.Getenv("WRENCH_TEST_SSH_KEY") == "" && os.Getenv("WRENCH_TEST_SSH_PASSWORD") == "" {
		t.Skip("Skipping: neither WRENCH_TEST_SSH_KEY nor WRENCH_TEST_SSH_PASSWORD set")
	}
}

// testEndpoint builds an endpoint for the test SSH server and relaxes
// host key checking for the duration of the test.
func testEndpoint(t *testing.T) sshutil.Endpoint {
	t.Helper()
	RequireSSH(t)

	sshutil.StrictHostKeyChecking = false
	t.Cleanup(func() {
		sshutil.StrictHostKeyChecking = true
	})

	port := sshutil.DefaultPort
	if p := os.Getenv("WRENCH_TEST_SSH_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			t.Fatalf("Bad WRENCH_TEST_SSH_PORT: %v", err)
		}
		port = parsed
	}

	ep := sshutil.Endpoint{
		Name: "test-server",
		Host: os.Getenv("WRENCH_TEST_SSH_HOST"),
		Port: port,
		User: os.Getenv("WRENCH_TEST_SSH_USER"),
	}

	if keyPath := os.Getenv("WRENCH_TEST_SSH_KEY"); keyPath != "" {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			t.Fatalf("Failed to read WRENCH_TEST_SSH_KEY: %v", err)
		}
		ep.PrivateKey = key
	} else {
		ep.Password = os.Getenv("WRENCH_TEST_SSH_PASSWORD")
	}

	return ep
}
