package config

import (
	"os"
	"path/filepath"

	"github.com/mholliday/wrench/internal/errors"
	"gopkg.in/yaml.v3"
)

// Save writes the config to path, creating parent directories as needed.
// The file is written 0600: it may contain passwords.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't serialize the config",
			"")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create config directory: "+dir,
			"Check directory permissions")
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config file: "+path,
			"Check file permissions")
	}

	return nil
}
