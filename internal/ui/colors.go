package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette using ANSI color codes for terminal compatibility.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors is the cycle used by animated spinners
// (pink -> purple -> cyan -> green).
var GradientColors = []lipgloss.Color{
	"13", // Bright magenta
	"5",  // Magenta
	"14", // Bright cyan
	"10", // Bright green
}

// DisableColors switches all styled output to monochrome.
// Called when --no-color is set or NO_COLOR is in the environment.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorsEnabledByEnv reports whether the environment permits color output,
// honoring the NO_COLOR convention and dumb terminals.
func ColorsEnabledByEnv() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}
