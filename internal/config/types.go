package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete wrench configuration file.
type Config struct {
	Version int               `yaml:"version" mapstructure:"version"`
	Default string            `yaml:"default,omitempty" mapstructure:"default"`
	Servers map[string]Server `yaml:"servers" mapstructure:"servers"`
	Connect ConnectConfig     `yaml:"connect,omitempty" mapstructure:"connect"`
}

// Server defines a stored endpoint: where to connect and with which
// credential. Exactly one of Password or KeyFile should be set.
type Server struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port,omitempty" mapstructure:"port"`
	User string `yaml:"user" mapstructure:"user"`

	// Password authenticates directly. Storing passwords in the config is
	// allowed but a key file is the better choice.
	Password string `yaml:"password,omitempty" mapstructure:"password"`

	// KeyFile is a path to a PEM private key. Supports ~ expansion.
	KeyFile string `yaml:"key_file,omitempty" mapstructure:"key_file"`

	// Bin overrides the path of the remote helper binary invoked by
	// tool commands. Empty means the default on PATH.
	Bin string `yaml:"bin,omitempty" mapstructure:"bin"`
}

// ConnectConfig controls transport behavior.
type ConnectConfig struct {
	// Timeout bounds a single connect attempt.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`

	// InsecureSkipHostKey disables known_hosts verification.
	InsecureSkipHostKey bool `yaml:"insecure_skip_host_key,omitempty" mapstructure:"insecure_skip_host_key"`
}

// DefaultConnectTimeout is used when the config doesn't set one.
const DefaultConnectTimeout = 10 * time.Second

// DefaultConfig returns a config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Servers: make(map[string]Server),
		Connect: ConnectConfig{
			Timeout: DefaultConnectTimeout,
		},
	}
}
