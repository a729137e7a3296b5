package sshutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// AliasConfig holds settings resolved from ~/.ssh/config for a host alias.
// Used by 'wrench hosts import' to seed stored endpoints from existing
// SSH setup.
type AliasConfig struct {
	Alias        string
	Hostname     string
	Port         string
	User         string
	IdentityFile string
}

// ResolveAlias looks up a host alias in ~/.ssh/config.
// Missing or unreadable config is not an error; the returned settings then
// just echo the alias with defaults.
func ResolveAlias(alias string) AliasConfig {
	path := filepath.Join(homeDir(), ".ssh", "config")
	f, err := os.Open(path)
	if err != nil {
		return AliasConfig{Alias: alias, Hostname: alias, Port: "22"}
	}
	defer f.Close()
	return ResolveAliasFrom(alias, f)
}

// ResolveAliasFrom resolves an alias against SSH config content read from r.
// Split out from ResolveAlias so tests can feed config text directly.
func ResolveAliasFrom(alias string, r io.Reader) AliasConfig {
	settings := AliasConfig{
		Alias:    alias,
		Hostname: alias,
		Port:     "22",
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return settings
	}

	// The ssh_config library doesn't support Match directives; keep only the
	// content before the first Match block so decoding doesn't fail.
	content = stripMatchBlocks(content)

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return settings
	}

	if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
		settings.Hostname = hostname
	}
	if port, _ := cfg.Get(alias, "Port"); port != "" {
		settings.Port = port
	}
	if user, _ := cfg.Get(alias, "User"); user != "" {
		settings.User = user
	}
	if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
		settings.IdentityFile = expandPath(identity)
	}

	return settings
}

// stripMatchBlocks returns the config content up to the first Match directive.
func stripMatchBlocks(content []byte) []byte {
	lines := strings.Split(string(content), "\n")
	var kept []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(trimmed), "match ") {
			break
		}
		kept = append(kept, line)
	}

	return []byte(strings.Join(kept, "\n"))
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
