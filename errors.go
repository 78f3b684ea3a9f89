package graphbolt

import (
	"errors"

	"github.com/mickamy/graphbolt/bolt"
)

// ErrPoolExhausted is returned when no connection could be acquired within
// the acquisition timeout.
var ErrPoolExhausted = errors.New("graphbolt: connection pool exhausted")

// ErrClosed is returned when using a transaction after it was committed,
// rolled back or closed.
var ErrClosed = errors.New("graphbolt: closed")

// Wire-level errors surface with their bolt types; aliases keep the public
// API in one package.
type (
	// ServerError is a FAILURE response; the connection recovers via RESET.
	ServerError = bolt.ServerError
	// AuthenticationError is a FAILURE during HELLO.
	AuthenticationError = bolt.AuthenticationError
	// ProtocolError poisons the connection that produced it.
	ProtocolError = bolt.ProtocolError
	// IgnoredError reports a request ignored by a failed server state.
	IgnoredError = bolt.IgnoredError
)

// ErrUnsupportedVersion is returned when the server agrees to none of the
// proposed protocol versions.
var ErrUnsupportedVersion = bolt.ErrUnsupportedVersion
