// Package ui provides terminal UI components for wrench's CLI output.
//
// The package includes an animated spinner, a connection attempt display,
// an interactive server picker, and styled text output using the Lip Gloss
// library for consistent terminal styling across all commands.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and skipped items
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Spinner Usage
//
// The Spinner type provides an animated indicator for operations:
//
//	s := ui.NewSpinner("Connecting")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail() or s.Skip()
//
// The spinner handles terminal output, clearing lines, and timing display.
//
// # Connection Display
//
// ConnectDisplay renders a connect attempt against a single server:
//
//	cd := ui.NewConnectDisplay(os.Stdout)
//	cd.Start("deploy@box:22")
//	// ... dial ...
//	cd.Success("web")  // or cd.Fail(err.Error())
package ui
