package cli

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/mholliday/wrench/internal/config"
	"github.com/mholliday/wrench/internal/conn"
	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/logger"
	"github.com/mholliday/wrench/internal/ui"
	"github.com/mholliday/wrench/pkg/sshutil"
)

// loadConfig loads and validates the config, failing with a helpful
// message when none exists yet.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(Config())
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'wrench init' to create one")
	}
	return config.Load(path)
}

// resolveServerName picks the server to use: the --host flag, then the
// configured default, then an interactive picker when on a terminal.
func resolveServerName(cfg *config.Config, hostFlag string) (string, error) {
	if hostFlag != "" {
		if _, ok := cfg.Servers[hostFlag]; !ok {
			return "", errors.New(errors.ErrConfig,
				fmt.Sprintf("No server named '%s' in config", hostFlag),
				"List known servers with 'wrench hosts list'")
		}
		return hostFlag, nil
	}

	if name := cfg.DefaultServer(); name != "" {
		return name, nil
	}

	if !ui.IsTerminal(os.Stdin) {
		return "", errors.New(errors.ErrConfig,
			"No default server and no --host given",
			"Set 'default' in your config or pass --host")
	}

	picked, err := ui.PickServer(serverInfos(cfg))
	if err != nil {
		return "", err
	}
	if picked == nil {
		return "", errors.New(errors.ErrConfig, "No server selected", "")
	}
	return picked.Name, nil
}

// serverInfos builds the picker rows, sorted by name with the default first.
func serverInfos(cfg *config.Config) []ui.ServerInfo {
	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]ui.ServerInfo, 0, len(names))
	for _, name := range names {
		server := cfg.Servers[name]
		ep, err := server.Endpoint(name)
		target := ""
		if err == nil {
			target = ep.String()
		}
		info := ui.ServerInfo{Name: name, Target: target, Default: name == cfg.Default}
		if info.Default {
			infos = append([]ui.ServerInfo{info}, infos...)
		} else {
			infos = append(infos, info)
		}
	}
	return infos
}

// materializeEndpoint turns a server name into a dialable endpoint,
// prompting for a password when the entry has no stored credentials.
func materializeEndpoint(cfg *config.Config, name string) (sshutil.Endpoint, error) {
	ep, err := cfg.Endpoint(name)
	if err != nil {
		return sshutil.Endpoint{}, err
	}

	if ep.AuthMethodCount() == 0 && ui.IsTerminal(os.Stdin) {
		password, err := promptPassword(fmt.Sprintf("Password for %s: ", ep.String()))
		if err != nil {
			return sshutil.Endpoint{}, err
		}
		ep.Password = password
	}

	return ep, nil
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrAuth,
			"Couldn't read password",
			"Store a password or key_file in the config instead")
	}
	return string(password), nil
}

// openManager builds the connection manager and connects it to the chosen
// server, rendering progress along the way. Callers own the returned
// manager and should Disconnect it when done.
func openManager(hostFlag string) (*conn.Manager, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	name, err := resolveServerName(cfg, hostFlag)
	if err != nil {
		return nil, nil, err
	}

	ep, err := materializeEndpoint(cfg, name)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Connect.InsecureSkipHostKey {
		sshutil.StrictHostKeyChecking = false
	}

	manager := conn.New(&conn.SSHDialer{Timeout: cfg.Connect.Timeout}, logger.Default())

	display := ui.NewConnectDisplay(os.Stdout)
	display.SetQuiet(Quiet() || !ui.IsTerminal(os.Stdout))
	display.Start(ep.String())

	if err := manager.Connect(ep); err != nil {
		display.Fail(rootCause(err))
		return nil, nil, err
	}
	display.Success(name)

	return manager, cfg, nil
}

// rootCause digs out the innermost message for compact display.
func rootCause(err error) string {
	if werr, ok := err.(*errors.Error); ok && werr.Cause != nil {
		return werr.Cause.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
