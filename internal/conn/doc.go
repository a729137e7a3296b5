// Package conn owns the single logical SSH connection used for remote
// command execution.
//
// The Manager holds at most one live Session at a time and survives transient
// network failures transparently: a command that fails because the transport
// dropped triggers exactly one inline reconnection attempt and one retry,
// provided the manager has connected successfully at least once before. A
// failure before any successful connection is never retried, so a server
// whose very first connection attempt is still failing doesn't get hammered
// with reconnects during setup.
//
// The application's composition root constructs one Manager and injects it
// wherever commands run; there is no package-level instance.
package conn
