package graphbolt_test

import (
	"testing"

	"github.com/mickamy/graphbolt"
	"github.com/mickamy/graphbolt/packstream"
)

func bookmarkSuccess(t *testing.T, mark string) []byte {
	return packMsg(t, func(p *packstream.Packer) {
		p.StructHeader(0x70, 1)
		p.MapHeader(1)
		p.String("bookmark")
		p.String(mark)
	})
}

func TestTxnCommit(t *testing.T) {
	t.Parallel()

	srv := startFakeServer(t,
		[][]byte{emptySuccess(t)}, // BEGIN
		[][]byte{runSuccess(t, "n")},
		[][]byte{record(t, 1), summarySuccess(t)}, // PULL
		[][]byte{bookmarkSuccess(t, "FB:tx")},     // COMMIT
		[][]byte{runSuccess(t, "n")},              // next query on the same conn
		[][]byte{summarySuccess(t)},
	)
	d := openDriver(t, srv)
	ctx := t.Context()

	tx, err := d.BeginTx(ctx, graphbolt.TxConfig{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	stream, err := tx.Execute(ctx, "MATCH (n) RETURN n", nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	row, err := stream.Next(ctx)
	if err != nil || row == nil {
		t.Fatalf("next: %v %v", row, err)
	}
	var n int64
	if err := row.Get("n", &n); err != nil || n != 1 {
		t.Fatalf("n = %d, %v", n, err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if tx.Bookmark() != "FB:tx" {
		t.Errorf("bookmark = %q, want FB:tx", tx.Bookmark())
	}

	// The connection went back to the pool in a usable state.
	if _, err := d.Run(ctx, "MATCH (n) RETURN n", nil); err != nil {
		t.Fatalf("query after commit: %v", err)
	}
}

func TestTxnRollbackOnClose(t *testing.T) {
	t.Parallel()

	srv := startFakeServer(t,
		[][]byte{emptySuccess(t)}, // BEGIN
		[][]byte{emptySuccess(t)}, // ROLLBACK
	)
	d := openDriver(t, srv)
	ctx := t.Context()

	tx, err := d.BeginTx(ctx, graphbolt.TxConfig{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := tx.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	// A second close is a no-op.
	if err := tx.Close(ctx); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestTxnUseAfterCommit(t *testing.T) {
	t.Parallel()

	srv := startFakeServer(t,
		[][]byte{emptySuccess(t)}, // BEGIN
		[][]byte{emptySuccess(t)}, // COMMIT
	)
	d := openDriver(t, srv)
	ctx := t.Context()

	tx, err := d.BeginTx(ctx, graphbolt.TxConfig{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := tx.Execute(ctx, "RETURN 1", nil); err == nil {
		t.Error("expected error running on a committed transaction")
	}
}
