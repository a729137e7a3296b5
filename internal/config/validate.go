package config

import (
	"fmt"

	"github.com/mholliday/wrench/internal/errors"
)

// Validate checks the config for errors and returns structured messages.
// Credential presence is checked loosely here (at most one of password and
// key file); the hard exactly-one precondition is enforced at connect time,
// so a half-configured server can still be listed and edited.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but wrench only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest wrench release")
	}

	for name, server := range cfg.Servers {
		if err := validateServer(name, server); err != nil {
			return err
		}
	}

	if cfg.Default != "" {
		if _, ok := cfg.Servers[cfg.Default]; !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Default server '%s' is not defined", cfg.Default),
				"Point 'default' at one of the entries under 'servers'")
		}
	}

	return nil
}

func validateServer(name string, s Server) error {
	if name == "" {
		return errors.New(errors.ErrConfig,
			"Server with an empty name",
			"Give every entry under 'servers' a name")
	}
	if s.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' has no host", name),
			"Set 'host' to a hostname or IP address")
	}
	if s.User == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' has no user", name),
			"Set 'user' to the login name on the remote")
	}
	if s.Port < 0 || s.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' has an invalid port %d", name, s.Port),
			"Use a port between 1 and 65535, or omit it for 22")
	}
	if s.Password != "" && s.KeyFile != "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' has both a password and a key file", name),
			"Keep exactly one of 'password' and 'key_file'")
	}
	return nil
}
