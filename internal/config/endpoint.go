package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/pkg/sshutil"
)

// Endpoint materializes a stored server entry into a dialable endpoint.
// The key file, if any, is read here so the endpoint carries the PEM
// material itself and nothing downstream touches the filesystem.
func (c *Config) Endpoint(name string) (sshutil.Endpoint, error) {
	server, ok := c.Servers[name]
	if !ok {
		return sshutil.Endpoint{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("No server named '%s' in config", name),
			"List known servers with 'wrench hosts list'")
	}
	return server.Endpoint(name)
}

// Endpoint converts the server entry to a dialable endpoint.
func (s Server) Endpoint(name string) (sshutil.Endpoint, error) {
	ep := sshutil.Endpoint{
		Name:     name,
		Host:     s.Host,
		Port:     s.Port,
		User:     s.User,
		Password: s.Password,
		BinPath:  s.Bin,
	}

	if s.KeyFile != "" {
		key, err := os.ReadFile(expandHome(s.KeyFile))
		if err != nil {
			return sshutil.Endpoint{}, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Couldn't read key file for server '%s'", name),
				fmt.Sprintf("Check the file exists: %s", s.KeyFile))
		}
		ep.PrivateKey = key
	}

	return ep, nil
}

// DefaultServer returns the name of the server to use when none is given:
// the configured default, or the only server if there's exactly one.
func (c *Config) DefaultServer() string {
	if c.Default != "" {
		return c.Default
	}
	if len(c.Servers) == 1 {
		for name := range c.Servers {
			return name
		}
	}
	return ""
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
