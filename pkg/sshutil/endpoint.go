package sshutil

import (
	"fmt"
	"net"
	"strconv"
)

// DefaultPort is used when an endpoint does not specify one.
const DefaultPort = 22

// Endpoint identifies what to connect to and how. It is immutable once
// supplied: the connection manager copies it, never mutates it.
//
// Exactly one of Password or PrivateKey must be set for a connect attempt
// to be accepted.
type Endpoint struct {
	Name       string // display name (config key), may be empty
	Host       string
	Port       int
	User       string
	Password   string
	PrivateKey []byte // PEM-encoded private key material
	BinPath    string // optional override path for the remote helper binary
}

// Address returns the host:port string for dialing.
func (e Endpoint) Address() string {
	port := e.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}

// String renders the endpoint as user@host:port for display and logging.
// Credential material never appears here.
func (e Endpoint) String() string {
	if e.User == "" {
		return e.Address()
	}
	return fmt.Sprintf("%s@%s", e.User, e.Address())
}

// Equal reports whether two endpoints identify the same target: same host,
// port, and user. Credentials and the helper path are not part of identity.
func (e Endpoint) Equal(other Endpoint) bool {
	return e.Host == other.Host &&
		e.normalizedPort() == other.normalizedPort() &&
		e.User == other.User
}

// AuthMethodCount returns how many credentials the endpoint carries.
// Valid endpoints carry exactly one.
func (e Endpoint) AuthMethodCount() int {
	n := 0
	if e.Password != "" {
		n++
	}
	if len(e.PrivateKey) > 0 {
		n++
	}
	return n
}

func (e Endpoint) normalizedPort() int {
	if e.Port == 0 {
		return DefaultPort
	}
	return e.Port
}
