package doctor

import (
	"fmt"

	"github.com/mholliday/wrench/internal/config"
)

// ConfigCheck verifies a wrench config can be found and loads cleanly.
type ConfigCheck struct {
	// Path is the explicit --config value, if any.
	Path string
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "CONFIG" }

func (c *ConfigCheck) Run() CheckResult {
	path, err := config.Find(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file not accessible",
			Suggestion: "Check the --config path",
		}
	}
	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found",
			Suggestion: "Run 'wrench init' to create one",
		}
	}

	if _, err := config.Load(path); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Config at %s doesn't load: %v", path, err),
			Suggestion: "Fix the reported problem, or re-run 'wrench init'",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config loads cleanly: " + path,
	}
}

// CredentialsCheck verifies every configured server carries exactly one
// authentication method, the precondition enforced at connect time.
type CredentialsCheck struct {
	Config *config.Config
}

func (c *CredentialsCheck) Name() string     { return "credentials" }
func (c *CredentialsCheck) Category() string { return "CONFIG" }

func (c *CredentialsCheck) Run() CheckResult {
	if c.Config == nil || len(c.Config.Servers) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No servers configured",
			Suggestion: "Add one with 'wrench init' or 'wrench hosts add'",
		}
	}

	var incomplete []string
	for name, server := range c.Config.Servers {
		hasPassword := server.Password != ""
		hasKey := server.KeyFile != ""
		if hasPassword == hasKey {
			incomplete = append(incomplete, name)
		}
	}

	if len(incomplete) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%d server%s without exactly one auth method", len(incomplete), pluralize(len(incomplete))),
			Suggestion: "Give each server either 'password' or 'key_file', never both or neither",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("All %d server%s have credentials", len(c.Config.Servers), pluralize(len(c.Config.Servers))),
	}
}

// DefaultChecks returns the standard check set for the doctor command.
func DefaultChecks(configPath string, cfg *config.Config) []Check {
	return []Check{
		&ConfigCheck{Path: configPath},
		&CredentialsCheck{Config: cfg},
		&SSHKeyCheck{},
		&SSHAgentCheck{},
		&KnownHostsCheck{},
		&SSHConfigCheck{},
	}
}
