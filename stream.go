package graphbolt

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/mickamy/graphbolt/bolt"
)

// streamState tracks where the engine is in the record-producing protocol.
type streamState int

const (
	streamReady    streamState = iota // next fetch needs a PULL
	streamPulling                     // a PULL or DISCARD response sequence is open
	streamComplete                    // terminal SUCCESS or FAILURE seen
)

// RowStream drives the record-producing half of the protocol on behalf of a
// caller iterating rows. It buffers one fetched batch and interleaves PULL
// requests with consumer demand.
//
// A RowStream is bound to the connection that ran its query and must be
// consumed before that connection is used for anything else.
type RowStream struct {
	conn      *bolt.Conn
	qid       int64
	fields    []string
	fetchSize int64

	state   streamState
	buf     []*Row
	head    int
	summary *Summary
}

func newRowStream(conn *bolt.Conn, run *bolt.Success, fetchSize int) *RowStream {
	qid, ok := run.QID()
	if !ok {
		qid = -1
	}
	return &RowStream{
		conn:      conn,
		qid:       qid,
		fields:    run.Fields(),
		fetchSize: int64(fetchSize),
		state:     streamReady,
	}
}

// Fields returns the column names announced by the query.
func (s *RowStream) Fields() []string { return s.fields }

// Next returns the next row, fetching a batch from the server whenever the
// buffer runs dry. After the stream ends it returns (nil, nil); the
// end-of-stream metadata is then available from Summary. Rows come back in
// server dispatch order.
func (s *RowStream) Next(ctx context.Context) (*Row, error) {
	for {
		if row := s.pop(); row != nil {
			return row, nil
		}
		switch s.state {
		case streamReady:
			if err := s.conn.Send(ctx, bolt.PullN(s.fetchSize).ForQuery(s.qid)); err != nil {
				s.state = streamComplete
				return nil, err
			}
			s.state = streamPulling

		case streamPulling:
			if err := s.receive(ctx, "PULL"); err != nil {
				return nil, err
			}

		case streamComplete:
			return nil, nil
		}
	}
}

// receive processes a single response while a PULL or DISCARD sequence is
// open.
func (s *RowStream) receive(ctx context.Context, reqName string) error {
	resp, err := s.conn.Recv(ctx)
	if err != nil {
		s.state = streamComplete
		return err
	}
	switch resp := resp.(type) {
	case *bolt.Record:
		values, err := resp.Values()
		if err != nil {
			s.state = streamComplete
			return err
		}
		s.push(&Row{fields: s.fields, values: values})
	case *bolt.Success:
		if resp.HasMore() {
			s.state = streamReady
		} else {
			s.summary = newSummary(resp)
			s.state = streamComplete
		}
	case *bolt.Failure:
		s.state = streamComplete
		return &ServerError{Code: resp.Code, Message: resp.Message, Context: reqName}
	case bolt.Ignored:
		s.state = streamComplete
		return &IgnoredError{Context: reqName}
	default:
		s.state = streamComplete
		return fmt.Errorf("graphbolt: unexpected response %T while streaming", resp)
	}
	return nil
}

// Finish aborts the stream: any remaining records are discarded on the
// server and the summary, if the server sent one, is returned. Buffered rows
// are dropped. Finish is a no-op on a completed stream.
func (s *RowStream) Finish(ctx context.Context) (*Summary, error) {
	s.buf, s.head = nil, 0
	for s.state != streamComplete {
		switch s.state {
		case streamReady:
			if err := s.conn.Send(ctx, bolt.DiscardAll().ForQuery(s.qid)); err != nil {
				s.state = streamComplete
				return nil, err
			}
			s.state = streamPulling
		case streamPulling:
			if err := s.receive(ctx, "DISCARD"); err != nil {
				// An IGNORED means the server already abandoned the
				// stream; there is nothing left to discard.
				var ignored *IgnoredError
				if errors.As(err, &ignored) {
					return nil, nil
				}
				return nil, err
			}
			// Records still in flight from an earlier PULL are dropped as
			// they are buffered.
			s.buf, s.head = nil, 0
		}
	}
	return s.summary, nil
}

// Summary returns the end-of-stream metadata once the stream has completed,
// or nil before that (and after a failed stream).
func (s *RowStream) Summary() *Summary { return s.summary }

func (s *RowStream) push(row *Row) {
	s.buf = append(s.buf, row)
}

func (s *RowStream) pop() *Row {
	if s.head >= len(s.buf) {
		return nil
	}
	row := s.buf[s.head]
	s.buf[s.head] = nil
	s.head++
	if s.head == len(s.buf) {
		s.buf, s.head = s.buf[:0], 0
	}
	return row
}

// ---------------- adapters ----------------
//
// All adapters are pure transformations over Next; none of them issue
// additional PULL or DISCARD requests.

// Rows yields the remaining rows as a lazy sequence.
func (s *RowStream) Rows(ctx context.Context) iter.Seq2[*Row, error] {
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

// WithSummary yields the remaining rows and resolves the summary handle once
// the stream ends.
func (s *RowStream) WithSummary(ctx context.Context) (iter.Seq2[*Row, error], *SummaryHandle) {
	handle := &SummaryHandle{}
	seq := func(yield func(*Row, error) bool) {
		for {
			row, err := s.Next(ctx)
			if err != nil {
				handle.err = err
				handle.done = true
				yield(nil, err)
				return
			}
			if row == nil {
				handle.summary = s.summary
				handle.done = true
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
	return seq, handle
}

// SummaryHandle resolves to the stream summary after the paired row sequence
// has been fully consumed.
type SummaryHandle struct {
	summary *Summary
	err     error
	done    bool
}

// Get returns the summary. It fails if the stream has not completed yet or
// ended in an error.
func (h *SummaryHandle) Get() (*Summary, error) {
	if !h.done {
		return nil, fmt.Errorf("graphbolt: stream has not completed")
	}
	return h.summary, h.err
}

// RowsAs yields each remaining row of s decoded into T via Row.Decode.
func RowsAs[T any](ctx context.Context, s *RowStream) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for {
			row, err := s.Next(ctx)
			if err != nil {
				yield(zero, err)
				return
			}
			if row == nil {
				return
			}
			var out T
			if err := row.Decode(&out); err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Column yields the named column of each remaining row decoded into T.
func Column[T any](ctx context.Context, s *RowStream, name string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for {
			row, err := s.Next(ctx)
			if err != nil {
				yield(zero, err)
				return
			}
			if row == nil {
				return
			}
			var out T
			if err := row.Get(name, &out); err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}
