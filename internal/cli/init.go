package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/config"
	"github.com/mholliday/wrench/internal/conn"
	"github.com/mholliday/wrench/internal/errors"
	"github.com/mholliday/wrench/internal/logger"
	"github.com/mholliday/wrench/internal/ui"
)

var (
	initLocalFlag bool
	initForceFlag bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a wrench config",
	Long: `Initialize a wrench configuration with your first server.

By default the config is written to ~/.config/wrench/config.yaml.
With --local it goes to .wrench.yaml in the current directory instead,
which takes precedence when present.

Examples:
  wrench init
  wrench init --local
  wrench init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initLocalFlag, initForceFlag)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initLocalFlag, "local", false, "write .wrench.yaml in the current directory")
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

func initCommand(local, force bool) error {
	var configPath string
	var err error

	if local {
		cwd, err := os.Getwd()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't determine the current directory",
				"Check directory permissions")
		}
		configPath = filepath.Join(cwd, config.ConfigFileName)
	} else {
		configPath, err = config.GlobalPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read your input",
				"Use --force to overwrite without asking")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	server, err := collectServerForm("", cfg)
	if err != nil {
		return err
	}
	if server == nil {
		fmt.Println("Cancelled.")
		return nil
	}

	cfg.Servers[server.name] = server.entry
	cfg.Default = server.name

	// Try the connection before saving; a failing server is still
	// savable, the user just gets told up front.
	if ep, epErr := cfg.Endpoint(server.name); epErr == nil && ep.AuthMethodCount() == 1 {
		spinner := ui.NewSpinner("Testing connection to " + ep.String())
		spinner.Start()

		manager := conn.New(&conn.SSHDialer{Timeout: cfg.Connect.Timeout}, logger.Noop())
		if connErr := manager.Connect(ep); connErr != nil {
			spinner.Fail()

			var saveAnyway bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Connection failed. Save the config anyway?").
						Value(&saveAnyway),
				),
			)
			if formErr := form.Run(); formErr != nil || !saveAnyway {
				return errors.WrapWithCode(connErr, errors.ErrSSH,
					fmt.Sprintf("Connection to '%s' failed", server.name),
					"Check the host, user, and credentials, then re-run 'wrench init'")
			}
		} else {
			manager.Disconnect()
			spinner.Success()
		}
	}

	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("\n%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  wrench run <cmd>   - Run a command on the server")
	fmt.Println("  wrench shell       - Open an interactive shell")
	fmt.Println("  wrench status      - Check server reachability")

	return nil
}
