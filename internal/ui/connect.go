package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectDisplay renders the progress of a connect attempt against a
// single server with an animated spinner and a final result line.
//
// Example output:
//
//	● Connected to web (deploy@192.168.1.50:22) 0.3s
//	✗ Connection failed: dial tcp: i/o timeout 2.1s
type ConnectDisplay struct {
	mu      sync.Mutex
	w       io.Writer
	spinner *Spinner
	started time.Time
	target  string
	quiet   bool
}

// NewConnectDisplay creates a connect display writing to w.
func NewConnectDisplay(w io.Writer) *ConnectDisplay {
	return &ConnectDisplay{w: w}
}

// SetQuiet suppresses the spinner; only the final result line is shown.
func (cd *ConnectDisplay) SetQuiet(quiet bool) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.quiet = quiet
}

// Start begins the connect phase for the given target (user@host:port).
func (cd *ConnectDisplay) Start(target string) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	cd.started = time.Now()
	cd.target = target

	if cd.quiet {
		return
	}

	cd.spinner = NewSpinner("Connecting to " + target)
	cd.spinner.SetOutput(func(s string) {
		fmt.Fprint(cd.w, s)
	})
	cd.spinner.Start()
}

// Success completes the display with the final connected line.
func (cd *ConnectDisplay) Success(serverName string) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	cd.stopSpinner()

	symbolStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	msg := fmt.Sprintf("Connected to %s", serverName)
	if cd.target != "" {
		msg = fmt.Sprintf("Connected to %s (%s)", serverName, cd.target)
	}

	fmt.Fprintf(cd.w, "%s %s %s\n",
		symbolStyle.Render(SymbolComplete),
		msg,
		timingStyle.Render(formatDuration(time.Since(cd.started))),
	)
}

// Fail completes the display with a failure line.
func (cd *ConnectDisplay) Fail(errMsg string) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	cd.stopSpinner()

	symbolStyle := lipgloss.NewStyle().Foreground(ColorError)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	msg := "Connection failed"
	if errMsg != "" {
		msg = "Connection failed: " + errMsg
	}

	fmt.Fprintf(cd.w, "%s %s %s\n",
		symbolStyle.Render(SymbolFail),
		msg,
		timingStyle.Render(formatDuration(time.Since(cd.started))),
	)
}

// Reconnecting prints a notice that the session dropped and a fresh dial
// is underway. Kept on its own line so surrounding command output stays
// readable.
func (cd *ConnectDisplay) Reconnecting(target string) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	style := lipgloss.NewStyle().Foreground(ColorWarning)
	fmt.Fprintf(cd.w, "%s connection lost, reconnecting to %s\n",
		style.Render(SymbolProgress), target)
}

func (cd *ConnectDisplay) stopSpinner() {
	if cd.spinner == nil {
		return
	}
	cd.spinner.Stop()
	fmt.Fprint(cd.w, "\r"+strings.Repeat(" ", 80)+"\r")
	cd.spinner = nil
}

// RenderStatusLine formats a single row for 'wrench status' output.
// Format:   ● web    deploy@192.168.1.50:22    connected
func RenderStatusLine(name, target, status string, current bool) string {
	symbol := SymbolPending
	symbolColor := ColorMuted
	if current {
		symbol = SymbolComplete
		symbolColor = ColorSuccess
	}

	symbolStyle := lipgloss.NewStyle().Foreground(symbolColor)
	statusStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	padding := 24 - len(name)
	if padding < 2 {
		padding = 2
	}

	return fmt.Sprintf("%s %s%s%s  %s",
		symbolStyle.Render(symbol),
		name,
		strings.Repeat(" ", padding),
		target,
		statusStyle.Render(status),
	)
}
