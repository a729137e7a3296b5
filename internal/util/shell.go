// Package util provides small helpers shared across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// Safe for use in remote commands where the string must be treated literally.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ToolCommand builds a remote invocation of the endpoint's helper binary.
// The tool path itself is quoted; args are quoted individually so spaces
// survive the remote shell.
func ToolCommand(toolPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellQuotePreserveTilde(toolPath))
	for _, a := range args {
		parts = append(parts, ShellQuote(a))
	}
	return strings.Join(parts, " ")
}

// ShellQuotePreserveTilde quotes a path for shell execution while preserving
// tilde expansion. For paths starting with ~/, the tilde is kept unquoted and
// the rest is single-quoted, so the remote shell still expands the home
// directory while paths with spaces stay intact.
func ShellQuotePreserveTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		return "~/" + ShellQuote(path[2:])
	}
	if path == "~" {
		return "~"
	}
	return ShellQuote(path)
}
