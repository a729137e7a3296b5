package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/config"
	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/ui"
	"github.com/mholliday/wrench/pkg/sshutil"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Manage the server list",
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return hostsList()
	},
}

var hostsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a server",
	Long: `Add a server to the config.

Without arguments an interactive form collects the connection details.

Examples:
  wrench hosts add
  wrench hosts add web`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return hostsAdd(name)
	},
}

var hostsRemoveCmd = &cobra.Command{
	Use:     "remove [name]",
	Aliases: []string{"rm"},
	Short:   "Remove a server",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return hostsRemove(name)
	},
}

var hostsImportCmd = &cobra.Command{
	Use:   "import <alias>",
	Short: "Import a host from ~/.ssh/config",
	Long: `Create a server entry from an SSH config alias.

Hostname, user, port, and identity file are taken from ~/.ssh/config.

Examples:
  wrench hosts import gpu-box`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return hostsImport(args[0])
	},
}

func init() {
	hostsCmd.AddCommand(hostsListCmd)
	hostsCmd.AddCommand(hostsAddCmd)
	hostsCmd.AddCommand(hostsRemoveCmd)
	hostsCmd.AddCommand(hostsImportCmd)
	rootCmd.AddCommand(hostsCmd)
}

func hostsList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(cfg.Servers) == 0 {
		fmt.Println("No servers configured. Add one with 'wrench hosts add'.")
		return nil
	}

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ep, err := cfg.Servers[name].Endpoint(name)
		target := ""
		if err == nil {
			target = ep.String()
		}
		label := name
		if name == cfg.DefaultServer() {
			label += " (default)"
		}
		fmt.Println(ui.RenderStatusLine(label, target, "", false))
	}
	return nil
}

func hostsAdd(name string) error {
	cfg, path, err := loadOrInitConfig()
	if err != nil {
		return err
	}

	server, err := collectServerForm(name, cfg)
	if err != nil {
		return err
	}
	if server == nil {
		fmt.Println("Cancelled.")
		return nil
	}

	cfg.Servers[server.name] = server.entry
	if cfg.Default == "" {
		cfg.Default = server.name
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("%s Added server '%s'\n", ui.SymbolSuccess, server.name)
	return nil
}

func hostsRemove(name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if name == "" {
		if len(cfg.Servers) == 0 {
			return errors.New(errors.ErrConfig, "No servers configured", "Nothing to remove.")
		}

		names := make([]string, 0, len(cfg.Servers))
		for n := range cfg.Servers {
			names = append(names, n)
		}
		sort.Strings(names)

		options := make([]huh.Option[string], len(names))
		for i, n := range names {
			label := n
			if n == cfg.Default {
				label += " (default)"
			}
			options[i] = huh.NewOption(label, n)
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Select server to remove").
					Options(options...).
					Value(&name),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read your selection",
				"Pass the server name directly: wrench hosts remove <name>")
		}
	}

	if _, ok := cfg.Servers[name]; !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("No server named '%s'", name),
			"List known servers with 'wrench hosts list'")
	}

	delete(cfg.Servers, name)
	if cfg.Default == name {
		cfg.Default = ""
	}

	path, err := config.Find(Config())
	if err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("%s Removed server '%s'\n", ui.SymbolSuccess, name)
	return nil
}

func hostsImport(alias string) error {
	cfg, path, err := loadOrInitConfig()
	if err != nil {
		return err
	}

	if _, exists := cfg.Servers[alias]; exists {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' already exists", alias),
			"Remove it first, or pick a different alias")
	}

	resolved := sshutil.ResolveAlias(alias)
	if resolved.Hostname == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Alias '%s' not found in ~/.ssh/config", alias),
			"Check the Host entries in ~/.ssh/config")
	}
	if resolved.User == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Alias '%s' has no User in ~/.ssh/config", alias),
			"Add a 'User' line to the Host block, or use 'wrench hosts add'")
	}
	if resolved.IdentityFile == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Alias '%s' has no IdentityFile in ~/.ssh/config", alias),
			"Add an 'IdentityFile' line, or use 'wrench hosts add' for password auth")
	}

	// ssh_config yields the port as text; anything unusable falls back to 22
	port := sshutil.DefaultPort
	if p, err := strconv.Atoi(resolved.Port); err == nil && p >= 1 && p <= 65535 {
		port = p
	}

	cfg.Servers[alias] = config.Server{
		Host:    resolved.Hostname,
		Port:    port,
		User:    resolved.User,
		KeyFile: resolved.IdentityFile,
	}
	if cfg.Default == "" {
		cfg.Default = alias
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("%s Imported '%s' (%s@%s)\n", ui.SymbolSuccess, alias, resolved.User, resolved.Hostname)
	return nil
}

// loadOrInitConfig loads the existing config, or starts a fresh one at
// the global path when none exists yet.
func loadOrInitConfig() (*config.Config, string, error) {
	path, err := config.Find(Config())
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		path, err = config.GlobalPath()
		if err != nil {
			return nil, "", err
		}
		return config.DefaultConfig(), path, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// addedServer is the outcome of the interactive add form.
type addedServer struct {
	name  string
	entry config.Server
}

// collectServerForm gathers server details interactively.
// Returns nil when the user cancels.
func collectServerForm(name string, cfg *config.Config) (*addedServer, error) {
	var (
		host       string
		portStr    string = strconv.Itoa(sshutil.DefaultPort)
		user       string
		authMethod string = "key"
		keyFile    string = "~/.ssh/id_ed25519"
		password   string
	)

	groups := []*huh.Group{}

	if name == "" {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Server name").
				Description("A friendly name used with --host").
				Placeholder("web").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					if strings.ContainsAny(s, " \t\n") {
						return fmt.Errorf("name cannot contain whitespace")
					}
					if _, exists := cfg.Servers[s]; exists {
						return fmt.Errorf("'%s' already exists", s)
					}
					return nil
				}),
		))
	} else if _, exists := cfg.Servers[name]; exists {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' already exists", name),
			"Remove it first with 'wrench hosts remove'")
	}

	groups = append(groups,
		huh.NewGroup(
			huh.NewInput().
				Title("Hostname or IP").
				Placeholder("192.168.1.50").
				Value(&host).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("hostname is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Port").
				Value(&portStr).
				Validate(func(s string) error {
					p, err := strconv.Atoi(s)
					if err != nil || p < 1 || p > 65535 {
						return fmt.Errorf("port must be 1-65535")
					}
					return nil
				}),
			huh.NewInput().
				Title("User").
				Placeholder("deploy").
				Value(&user).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("user is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Authentication").
				Options(
					huh.NewOption("SSH key file", "key"),
					huh.NewOption("Password", "password"),
				).
				Value(&authMethod),
		),
	)

	form := huh.NewForm(groups...)
	if err := form.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read your input",
			"Check terminal compatibility")
	}

	// Credential detail in a second step, since it depends on the method
	switch authMethod {
	case "key":
		credForm := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Key file path").
				Value(&keyFile),
		))
		if err := credForm.Run(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't read your input", "")
		}
	case "password":
		credForm := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description("Stored in the config file (0600); prefer a key file").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		))
		if err := credForm.Run(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't read your input", "")
		}
	}

	port, _ := strconv.Atoi(portStr)
	entry := config.Server{Host: host, Port: port, User: user}
	if authMethod == "key" {
		entry.KeyFile = keyFile
	} else {
		entry.Password = password
	}

	return &addedServer{name: name, entry: entry}, nil
}
