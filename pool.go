package graphbolt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/puddle/v2"

	"github.com/mickamy/graphbolt/bolt"
)

// pool hands out exclusively owned connections. The generic resource
// bookkeeping comes from puddle; this wrapper adds dialing, the protocol
// handshake, the acquisition timeout and release hygiene.
type pool struct {
	cfg Config
	p   *puddle.Pool[*bolt.Conn]
}

func newPool(cfg Config) (*pool, error) {
	pl := &pool{cfg: cfg}
	var err error
	pl.p, err = puddle.NewPool(&puddle.Config[*bolt.Conn]{
		Constructor: pl.connect,
		Destructor: func(c *bolt.Conn) {
			_ = c.Close()
		},
		MaxSize: int32(cfg.MaxConnections),
	})
	if err != nil {
		return nil, fmt.Errorf("graphbolt: create pool: %w", err)
	}
	return pl, nil
}

func (pl *pool) connect(ctx context.Context) (*bolt.Conn, error) {
	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", pl.cfg.addr())
	if err != nil {
		return nil, fmt.Errorf("graphbolt: dial %s: %w", pl.cfg.addr(), err)
	}
	conn, err := bolt.Connect(ctx, netConn, bolt.ConnConfig{
		UserAgent:   pl.cfg.UserAgent,
		Principal:   pl.cfg.User,
		Credentials: pl.cfg.Password,
		Logger:      pl.cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// acquire returns an exclusively owned connection, waiting up to the
// configured acquisition timeout for a slot.
func (pl *pool) acquire(ctx context.Context) (*puddle.Resource[*bolt.Conn], error) {
	ctx, cancel := context.WithTimeout(ctx, pl.cfg.AcquisitionTimeout)
	defer cancel()
	res, err := pl.p.Acquire(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrPoolExhausted
		}
		return nil, err
	}
	// A pooled connection may have died while idle.
	if res.Value().State() == bolt.StateClosed {
		res.Destroy()
		return pl.acquire(ctx)
	}
	return res, nil
}

// release returns a connection to the pool. A streaming, in-transaction,
// failed or interrupted connection is driven back with a RESET and destroyed
// if that fails; a connection in any other state is destroyed.
func (pl *pool) release(res *puddle.Resource[*bolt.Conn]) {
	conn := res.Value()
	switch conn.State() {
	case bolt.StateReady:
		res.Release()
	case bolt.StateStreaming, bolt.StateTxBegun, bolt.StateTxStreaming,
		bolt.StateFailed, bolt.StateInterrupted:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := conn.Reset(ctx); err != nil {
			res.Destroy()
			return
		}
		res.Release()
	default:
		res.Destroy()
	}
}

func (pl *pool) close() {
	pl.p.Close()
}
