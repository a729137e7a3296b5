package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	gosync "sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mholliday/wrench/internal/config"
	"github.com/mholliday/wrench/internal/conn"
	"github.com/mholliday/wrench/internal/logger"
	"github.com/mholliday/wrench/internal/ui"
	"github.com/mholliday/wrench/pkg/sshutil"
)

var (
	statusJSON    bool
	statusNoProbe bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured servers and their reachability",
	Long: `List every server in the config and probe each one.

A probe opens a connection and runs a no-op command, so a green row
means commands will actually work, not just that the port is open.

Examples:
  wrench status
  wrench status --json
  wrench status --no-probe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand()
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	statusCmd.Flags().BoolVar(&statusNoProbe, "no-probe", false, "list servers without connecting")
	rootCmd.AddCommand(statusCmd)
}

// ServerStatus is one row of status output.
type ServerStatus struct {
	Name    string `json:"name"`
	Target  string `json:"target"`
	Default bool   `json:"default"`
	Status  string `json:"status"` // "connected", "failed", "unknown"
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

func statusCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	statuses := collectStatuses(cfg, !statusNoProbe)

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	for _, s := range statuses {
		label := s.Status
		if s.Latency != "" {
			label = fmt.Sprintf("%s (%s)", s.Status, s.Latency)
		}
		if s.Error != "" {
			label = fmt.Sprintf("%s: %s", s.Status, s.Error)
		}
		name := s.Name
		if s.Default {
			name += " (default)"
		}
		fmt.Println(ui.RenderStatusLine(name, s.Target, label, s.Status == "connected"))
	}

	return nil
}

// collectStatuses probes all servers in parallel. With probe false it
// just lists them with status "unknown".
func collectStatuses(cfg *config.Config, probe bool) []ServerStatus {
	if cfg.Connect.InsecureSkipHostKey {
		sshutil.StrictHostKeyChecking = false
	}

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]ServerStatus, len(names))
	var wg gosync.WaitGroup

	for i, name := range names {
		ep, err := cfg.Servers[name].Endpoint(name)

		statuses[i] = ServerStatus{
			Name:    name,
			Default: name == cfg.DefaultServer(),
			Status:  "unknown",
		}
		if err != nil {
			statuses[i].Status = "failed"
			statuses[i].Error = rootCause(err)
			continue
		}
		statuses[i].Target = ep.String()

		if !probe {
			continue
		}

		wg.Add(1)
		go func(idx int, ep sshutil.Endpoint) {
			defer wg.Done()
			statuses[idx] = probeServer(statuses[idx], ep, cfg.Connect.Timeout)
		}(i, ep)
	}

	wg.Wait()
	return statuses
}

// probeServer connects and runs the liveness command through a throwaway
// manager, so the probe exercises the same path commands use.
func probeServer(s ServerStatus, ep sshutil.Endpoint, timeout time.Duration) ServerStatus {
	start := time.Now()

	manager := conn.New(&conn.SSHDialer{Timeout: timeout}, logger.Noop())
	if err := manager.Connect(ep); err != nil {
		s.Status = "failed"
		s.Error = rootCause(err)
		return s
	}
	defer manager.Disconnect()

	if !manager.TestConnection() {
		s.Status = "failed"
		s.Error = "connected but command failed"
		return s
	}

	s.Status = "connected"
	s.Latency = fmt.Sprintf("%.0fms", float64(time.Since(start).Milliseconds()))
	return s
}
