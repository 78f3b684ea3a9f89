package graphbolt

import (
	"context"

	"github.com/jackc/puddle/v2"

	"github.com/mickamy/graphbolt/bolt"
)

// Driver is the entry point: a connection pool plus the configuration every
// query inherits. It is safe for concurrent use; each acquired connection is
// used by one caller at a time.
type Driver struct {
	cfg  Config
	pool *pool
}

// Open validates the configuration and prepares the pool. Connections are
// dialed lazily on first use.
func Open(cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	p, err := newPool(cfg)
	if err != nil {
		return nil, err
	}
	return &Driver{cfg: cfg, pool: p}, nil
}

// Execute runs an auto-commit query and returns a detached stream over its
// rows. The stream holds a pooled connection until it is exhausted, finished
// or closed.
func (d *Driver) Execute(ctx context.Context, query string, params map[string]any) (*DetachedRowStream, error) {
	res, err := d.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	conn := res.Value()

	paramDict, err := bolt.DictFromMap(params)
	if err != nil {
		d.pool.release(res)
		return nil, err
	}
	extra, err := TxConfig{}.extra(d.cfg.DB)
	if err != nil {
		d.pool.release(res)
		return nil, err
	}
	success, err := conn.Ask(ctx, bolt.Run{Query: query, Params: paramDict, Extra: extra})
	if err != nil {
		d.pool.release(res)
		return nil, err
	}
	return &DetachedRowStream{
		stream: newRowStream(conn, success, d.cfg.FetchSize),
		d:      d,
		res:    res,
	}, nil
}

// Run executes a query, discards its rows server-side and returns the
// summary.
func (d *Driver) Run(ctx context.Context, query string, params map[string]any) (*Summary, error) {
	stream, err := d.Execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return stream.Close(ctx)
}

// Close shuts the pool down, sending GOODBYE on idle connections.
func (d *Driver) Close() {
	d.pool.close()
}

// DetachedRowStream is a RowStream that owns its pooled connection across
// suspension points and releases it when the stream ends.
type DetachedRowStream struct {
	stream *RowStream
	d      *Driver
	res    *puddle.Resource[*bolt.Conn]

	released bool
}

// Fields returns the column names announced by the query.
func (s *DetachedRowStream) Fields() []string { return s.stream.Fields() }

// Next returns the next row, releasing the connection back to the pool once
// the stream ends. After the end it returns (nil, nil).
func (s *DetachedRowStream) Next(ctx context.Context) (*Row, error) {
	row, err := s.stream.Next(ctx)
	if err != nil || row == nil {
		s.release()
	}
	return row, err
}

// Summary returns the end-of-stream metadata once the stream has completed.
func (s *DetachedRowStream) Summary() *Summary { return s.stream.Summary() }

// Close aborts the stream with a single DISCARD, releases the connection and
// returns the summary if the server sent one. Closing a finished stream is a
// no-op.
func (s *DetachedRowStream) Close(ctx context.Context) (*Summary, error) {
	summary, err := s.stream.Finish(ctx)
	s.release()
	return summary, err
}

// Rows yields the remaining rows as a lazy sequence, releasing the
// connection when the stream ends. Abandoning the sequence early leaves the
// stream open; call Close to discard the rest.
func (s *DetachedRowStream) Rows(ctx context.Context) func(yield func(*Row, error) bool) {
	return func(yield func(*Row, error) bool) {
		for {
			row, err := s.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if row == nil {
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (s *DetachedRowStream) release() {
	if s.released {
		return
	}
	s.released = true
	s.d.pool.release(s.res)
}
