package bolt

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVersion is returned when the handshake yields no agreed
// protocol version.
var ErrUnsupportedVersion = errors.New("bolt: server supports none of the proposed protocol versions")

// ErrClosed is returned when using a connection that is closed or poisoned.
var ErrClosed = errors.New("bolt: connection is closed")

// ProtocolError reports a protocol-level malformation: an unexpected tag or
// marker, a framing error, a duplicate dictionary key, a bad structure field
// count. The connection that produced it is poisoned.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string {
	return "bolt: protocol violation: " + e.Detail
}

func protocolErrf(format string, args ...any) error {
	return &ProtocolError{Detail: fmt.Sprintf(format, args...)}
}

// ServerError is a FAILURE response from the server. The connection stays
// usable after a RESET.
type ServerError struct {
	// Code is the server's status code, e.g. "Neo.ClientError.Statement.SyntaxError".
	Code string
	// Message is the human-readable description.
	Message string
	// Context names the request that failed, e.g. "RUN".
	Context string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("bolt: server failure during %s: %s (%s)", e.Context, e.Message, e.Code)
}

// AuthenticationError is a FAILURE during HELLO. Not recoverable without new
// credentials.
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("bolt: authentication failed: %s (%s)", e.Message, e.Code)
}

// IgnoredError reports an IGNORED response, which the server sends for any
// request other than RESET while it is in a failed state.
type IgnoredError struct {
	// Context names the ignored request.
	Context string
}

func (e *IgnoredError) Error() string {
	return fmt.Sprintf("bolt: server ignored %s request", e.Context)
}
