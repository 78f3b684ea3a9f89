package graphbolt

import (
	"fmt"
	"time"

	"github.com/mickamy/graphbolt/bolt"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultFetchSize          = 200
	DefaultMaxConnections     = 16
	DefaultAcquisitionTimeout = 60 * time.Second
	DefaultPort               = 7687
)

// Config describes how to reach and talk to the database.
type Config struct {
	// Host and Port of the endpoint.
	Host string
	Port int

	// User and Password authenticate with the basic scheme. An empty User
	// connects unauthenticated.
	User     string
	Password string

	// DB selects the default database for queries. Empty uses the server's
	// default.
	DB string

	// FetchSize is how many records each PULL requests. Non-positive values
	// fall back to DefaultFetchSize.
	FetchSize int

	// MaxConnections bounds the pool size.
	MaxConnections int

	// AcquisitionTimeout bounds how long an acquire may wait for a free
	// connection before failing with ErrPoolExhausted.
	AcquisitionTimeout time.Duration

	// UserAgent identifies the application to the server.
	UserAgent string

	// Logger receives connection-level message traces. Nil disables them.
	Logger bolt.Logger
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.FetchSize <= 0 {
		c.FetchSize = DefaultFetchSize
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = DefaultMaxConnections
	}
	if c.AcquisitionTimeout <= 0 {
		c.AcquisitionTimeout = DefaultAcquisitionTimeout
	}
	if c.Logger == nil {
		c.Logger = bolt.NopLogger()
	}
	return c
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("graphbolt: config host must not be empty")
	}
	return nil
}
