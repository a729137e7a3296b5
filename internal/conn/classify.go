package conn

import "strings"

// connectionErrorIndicators are lowercase substrings that mark an error as
// "the transport dropped" rather than "the remote command failed". The SSH
// layer doesn't expose structured error codes for this, so classification is
// by message text. Kept in one place so it can be swapped for structured
// codes if the transport library ever grows them.
var connectionErrorIndicators = []string{
	"socket",
	"connection",
	"reset",
	"closed",
	"timeout",
	"broken pipe",
	"session",
	"eof",
}

// IsConnectionError reports whether err looks like a dropped transport.
// Matching is case-insensitive over the whole error chain's message.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range connectionErrorIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
