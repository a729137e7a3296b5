package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mholliday/wrench/internal/config"
	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/pkg/sshutil"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dev", "dev"},
		{"", ""},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() {
		version, commit, date = origVersion, origCommit, origDate
	}()

	SetVersionInfo("2.0.0", "abc1234", "2026-01-01")
	assert.Equal(t, "2.0.0", GetVersion())
	assert.Equal(t, "abc1234", commit)
	assert.Equal(t, "2026-01-01", date)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Servers["web"] = config.Server{Host: "192.168.1.50", Port: 2222, User: "deploy", Password: "x"}
	cfg.Servers["db"] = config.Server{Host: "db.internal", User: "admin", Password: "y"}
	return cfg
}

func TestResolveServerName(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		cfg := testConfig()
		cfg.Default = "db"

		name, err := resolveServerName(cfg, "web")
		require.NoError(t, err)
		assert.Equal(t, "web", name)
	})

	t.Run("unknown flag rejected", func(t *testing.T) {
		_, err := resolveServerName(testConfig(), "ghost")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("default used when no flag", func(t *testing.T) {
		cfg := testConfig()
		cfg.Default = "db"

		name, err := resolveServerName(cfg, "")
		require.NoError(t, err)
		assert.Equal(t, "db", name)
	})

	t.Run("sole server is implicit default", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Servers["only"] = config.Server{Host: "box", User: "deploy", Password: "x"}

		name, err := resolveServerName(cfg, "")
		require.NoError(t, err)
		assert.Equal(t, "only", name)
	})

	t.Run("ambiguous without a terminal fails", func(t *testing.T) {
		// Test binaries get /dev/null on stdin, so the picker path
		// is unreachable here
		_, err := resolveServerName(testConfig(), "")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestServerInfos(t *testing.T) {
	cfg := testConfig()
	cfg.Default = "web"

	infos := serverInfos(cfg)
	require.Len(t, infos, 2)

	// Default floats to the top
	assert.Equal(t, "web", infos[0].Name)
	assert.True(t, infos[0].Default)
	assert.Equal(t, "deploy@192.168.1.50:2222", infos[0].Target)
	assert.Equal(t, "db", infos[1].Name)
}

func TestRootCause(t *testing.T) {
	assert.Equal(t, "", rootCause(nil))

	plain := errors.New(errors.ErrSSH, "plain failure", "")
	assert.Contains(t, rootCause(plain), "plain failure")

	wrapped := errors.WrapWithCode(os.ErrNotExist, errors.ErrConfig, "outer", "fix it")
	assert.Equal(t, os.ErrNotExist.Error(), rootCause(wrapped))
}

func TestCollectStatusesNoProbe(t *testing.T) {
	cfg := testConfig()
	cfg.Default = "web"

	statuses := collectStatuses(cfg, false)
	require.Len(t, statuses, 2)

	// Sorted by name
	assert.Equal(t, "db", statuses[0].Name)
	assert.Equal(t, "web", statuses[1].Name)

	assert.Equal(t, "unknown", statuses[0].Status)
	assert.True(t, statuses[1].Default)
	assert.Equal(t, "deploy@192.168.1.50:2222", statuses[1].Target)
}

func TestCollectStatusesAppliesHostKeyPolicy(t *testing.T) {
	orig := sshutil.StrictHostKeyChecking
	defer func() { sshutil.StrictHostKeyChecking = orig }()

	cfg := testConfig()
	cfg.Connect.InsecureSkipHostKey = true

	collectStatuses(cfg, false)

	assert.False(t, sshutil.StrictHostKeyChecking,
		"status probes honor the same host key policy as run and shell")
}

func TestCollectStatusesBrokenKeyFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Servers["bad"] = config.Server{
		Host: "box", User: "deploy",
		KeyFile: filepath.Join(t.TempDir(), "missing-key"),
	}

	statuses := collectStatuses(cfg, false)
	require.Len(t, statuses, 1)
	assert.Equal(t, "failed", statuses[0].Status)
	assert.NotEmpty(t, statuses[0].Error)
}

func TestLoadOrInitConfigFreshStart(t *testing.T) {
	// Point everything at an empty home so no config is found
	origHome := os.Getenv("HOME")
	origConfig := configFlag
	defer func() {
		os.Setenv("HOME", origHome) //nolint:errcheck
		configFlag = origConfig
	}()

	home := t.TempDir()
	require.NoError(t, os.Setenv("HOME", home))
	configFlag = ""

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd) //nolint:errcheck

	cfg, path, err := loadOrInitConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Servers)
	assert.Equal(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), path)
}

func TestHostsImportRoundTrip(t *testing.T) {
	origHome := os.Getenv("HOME")
	origConfig := configFlag
	defer func() {
		os.Setenv("HOME", origHome) //nolint:errcheck
		configFlag = origConfig
	}()

	home := t.TempDir()
	require.NoError(t, os.Setenv("HOME", home))
	configFlag = ""

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd) //nolint:errcheck

	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0700))
	sshConfig := `Host gpu-box
  HostName 10.1.2.3
  Port 2222
  User trainer
  IdentityFile ~/.ssh/id_ed25519

Host weird
  HostName 10.1.2.4
  Port 99999
  User trainer
  IdentityFile ~/.ssh/id_ed25519
`
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "config"), []byte(sshConfig), 0600))

	require.NoError(t, hostsImport("gpu-box"))

	path, err := config.GlobalPath()
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	server, ok := cfg.Servers["gpu-box"]
	require.True(t, ok)
	assert.Equal(t, "10.1.2.3", server.Host)
	assert.Equal(t, 2222, server.Port, "ssh_config port text survives the round trip as an int")
	assert.Equal(t, "trainer", server.User)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), server.KeyFile)
	assert.Equal(t, "gpu-box", cfg.Default, "first import becomes the default")

	// Out-of-range port falls back to the default
	require.NoError(t, hostsImport("weird"))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 22, cfg.Servers["weird"].Port)
	assert.Equal(t, "gpu-box", cfg.Default, "later imports leave the default alone")
}

func TestHostsImportDuplicateRejected(t *testing.T) {
	origHome := os.Getenv("HOME")
	origConfig := configFlag
	defer func() {
		os.Setenv("HOME", origHome) //nolint:errcheck
		configFlag = origConfig
	}()

	home := t.TempDir()
	require.NoError(t, os.Setenv("HOME", home))
	configFlag = ""

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd) //nolint:errcheck

	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0700))
	sshConfig := `Host gpu-box
  HostName 10.1.2.3
  User trainer
  IdentityFile ~/.ssh/id_ed25519
`
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "config"), []byte(sshConfig), 0600))

	require.NoError(t, hostsImport("gpu-box"))

	err = hostsImport("gpu-box")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
