package bolt

import "log"

// Logger receives message-level traces from a connection.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

// NopLogger discards everything. It is the default.
func NopLogger() Logger { return nopLogger{} }

// StdLogger traces through a standard library logger.
type StdLogger struct {
	L *log.Logger
}

func (s StdLogger) Debugf(format string, args ...any) {
	s.L.Printf("DEBUG "+format, args...)
}

func (s StdLogger) Errorf(format string, args ...any) {
	s.L.Printf("ERROR "+format, args...)
}
