package graphbolt

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/puddle/v2"

	"github.com/mickamy/graphbolt/bolt"
)

// TxConfig carries the options of an explicit transaction. The zero value
// starts a write transaction against the configured default database.
type TxConfig struct {
	// DB overrides the driver's default database.
	DB string
	// Timeout is the server-side transaction timeout. Zero leaves the
	// server default in place.
	Timeout time.Duration
	// Metadata is attached to the transaction and shows up in monitoring.
	Metadata map[string]any
	// Bookmarks the transaction must observe before starting.
	Bookmarks []string
	// ReadOnly routes the transaction as a read.
	ReadOnly bool
	// ImpersonatedUser executes the transaction as another user.
	ImpersonatedUser string
}

// extra builds the BEGIN/RUN extra dictionary, omitting unset keys.
func (c TxConfig) extra(defaultDB string) (*bolt.Dict, error) {
	d := bolt.NewDict(6)
	db := c.DB
	if db == "" {
		db = defaultDB
	}
	if db != "" {
		d.Set("db", bolt.String(db))
	}
	if c.Timeout > 0 {
		d.Set("tx_timeout", bolt.Int(c.Timeout.Milliseconds()))
	}
	if len(c.Metadata) > 0 {
		meta, err := bolt.DictFromMap(c.Metadata)
		if err != nil {
			return nil, err
		}
		d.Set("tx_metadata", meta)
	}
	if len(c.Bookmarks) > 0 {
		marks := make(bolt.List, len(c.Bookmarks))
		for i, b := range c.Bookmarks {
			marks[i] = bolt.String(b)
		}
		d.Set("bookmarks", marks)
	}
	if c.ReadOnly {
		d.Set("mode", bolt.String("r"))
	}
	if c.ImpersonatedUser != "" {
		d.Set("imp_user", bolt.String(c.ImpersonatedUser))
	}
	return d, nil
}

// Txn is an explicit transaction. It owns its pooled connection until
// Commit, Rollback or Close returns it.
type Txn struct {
	d    *Driver
	res  *puddle.Resource[*bolt.Conn]
	conn *bolt.Conn

	// stream is the transaction's open result stream, if any. It must be
	// drained or discarded before the next RUN or the COMMIT.
	stream *RowStream

	bookmark string
	done     bool
}

// BeginTx starts an explicit transaction.
func (d *Driver) BeginTx(ctx context.Context, cfg TxConfig) (*Txn, error) {
	res, err := d.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	conn := res.Value()

	extra, err := cfg.extra(d.cfg.DB)
	if err != nil {
		d.pool.release(res)
		return nil, err
	}
	if _, err := conn.Ask(ctx, bolt.Begin{Extra: extra}); err != nil {
		d.pool.release(res)
		return nil, err
	}
	return &Txn{d: d, res: res, conn: conn}, nil
}

// Execute runs a query inside the transaction and returns its row stream.
// The stream must be consumed or finished before the next call on the
// transaction.
func (t *Txn) Execute(ctx context.Context, query string, params map[string]any) (*RowStream, error) {
	if t.done {
		return nil, ErrClosed
	}
	if err := t.settleStream(ctx); err != nil {
		return nil, err
	}

	paramDict, err := bolt.DictFromMap(params)
	if err != nil {
		return nil, err
	}
	success, err := t.conn.Ask(ctx, bolt.Run{Query: query, Params: paramDict})
	if err != nil {
		return nil, err
	}
	t.stream = newRowStream(t.conn, success, t.d.cfg.FetchSize)
	return t.stream, nil
}

// Run executes a query, discards its rows and returns the summary.
func (t *Txn) Run(ctx context.Context, query string, params map[string]any) (*Summary, error) {
	stream, err := t.Execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return stream.Finish(ctx)
}

// Commit finishes any open stream, commits and releases the connection.
// The bookmark minted by the server is available from Bookmark afterwards.
func (t *Txn) Commit(ctx context.Context) error {
	if t.done {
		return ErrClosed
	}
	if err := t.settleStream(ctx); err != nil {
		t.close()
		return err
	}
	success, err := t.conn.Ask(ctx, bolt.Commit{})
	if err != nil {
		t.close()
		return err
	}
	if mark, ok := success.Bookmark(); ok {
		t.bookmark = mark
	}
	t.close()
	return nil
}

// Rollback aborts the transaction and releases the connection.
func (t *Txn) Rollback(ctx context.Context) error {
	if t.done {
		return ErrClosed
	}
	if err := t.settleStream(ctx); err != nil {
		t.close()
		return err
	}
	_, err := t.conn.Ask(ctx, bolt.Rollback{})
	t.close()
	return err
}

// Close rolls the transaction back unless it was already committed or
// rolled back.
func (t *Txn) Close(ctx context.Context) error {
	if t.done {
		return nil
	}
	return t.Rollback(ctx)
}

// Bookmark returns the bookmark minted by a successful commit.
func (t *Txn) Bookmark() string { return t.bookmark }

// settleStream discards whatever is left of the previous stream so the
// connection is free for the next request.
func (t *Txn) settleStream(ctx context.Context) error {
	if t.stream == nil {
		return nil
	}
	stream := t.stream
	t.stream = nil
	if _, err := stream.Finish(ctx); err != nil {
		return fmt.Errorf("graphbolt: settle open stream: %w", err)
	}
	return nil
}

func (t *Txn) close() {
	t.done = true
	t.d.pool.release(t.res)
}
