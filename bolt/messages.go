package bolt

import (
	"github.com/mickamy/graphbolt/packstream"
)

// Message tag bytes.
const (
	msgHello    byte = 0x01
	msgGoodbye  byte = 0x02
	msgReset    byte = 0x0F
	msgRun      byte = 0x10
	msgBegin    byte = 0x11
	msgCommit   byte = 0x12
	msgRollback byte = 0x13
	msgDiscard  byte = 0x2F
	msgPull     byte = 0x3F

	msgSuccess byte = 0x70
	msgRecord  byte = 0x71
	msgIgnored byte = 0x7E
	msgFailure byte = 0x7F
)

// Request is a client-to-server message.
type Request interface {
	// Name is the wire protocol name of the request, used in error context.
	Name() string
	appendTo(p *packstream.Packer) error
}

// Hello authenticates the connection. Extra carries user_agent, scheme,
// principal, credentials and related negotiation keys.
type Hello struct {
	Extra *Dict
}

func (Hello) Name() string { return "HELLO" }

func (m Hello) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgHello, 1)
	return EncodeValue(p, m.Extra)
}

// Goodbye announces a clean shutdown. It has no response.
type Goodbye struct{}

func (Goodbye) Name() string { return "GOODBYE" }

func (Goodbye) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgGoodbye, 0)
	return nil
}

// Reset clears server-side state and recovers from a failed state.
type Reset struct{}

func (Reset) Name() string { return "RESET" }

func (Reset) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgReset, 0)
	return nil
}

// Run submits a query with parameters. Extra carries db, bookmarks,
// tx_timeout, tx_metadata, mode and imp_user; unset keys are omitted.
type Run struct {
	Query  string
	Params *Dict
	Extra  *Dict
}

func (Run) Name() string { return "RUN" }

func (m Run) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgRun, 3)
	p.String(m.Query)
	if err := EncodeValue(p, nonNilDict(m.Params)); err != nil {
		return err
	}
	return EncodeValue(p, nonNilDict(m.Extra))
}

// Pull requests records from an open result stream. N < 0 requests all
// remaining records. QID targets a specific stream; -1 means the last
// started query and is omitted on the wire.
type Pull struct {
	N   int64
	QID int64
}

// PullAll requests every remaining record of the last query.
func PullAll() Pull { return Pull{N: -1, QID: -1} }

// PullN requests up to n records of the last query. A non-positive n
// requests all remaining records.
func PullN(n int64) Pull {
	if n <= 0 {
		n = -1
	}
	return Pull{N: n, QID: -1}
}

// ForQuery targets the pull at a specific open stream.
func (m Pull) ForQuery(qid int64) Pull {
	m.QID = qid
	return m
}

func (Pull) Name() string { return "PULL" }

func (m Pull) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgPull, 1)
	appendStreamExtra(p, m.N, m.QID)
	return nil
}

// Discard drops records from an open result stream. Field semantics match
// Pull.
type Discard struct {
	N   int64
	QID int64
}

// DiscardAll drops every remaining record of the last query.
func DiscardAll() Discard { return Discard{N: -1, QID: -1} }

// DiscardN drops up to n records of the last query. A non-positive n drops
// all remaining records.
func DiscardN(n int64) Discard {
	if n <= 0 {
		n = -1
	}
	return Discard{N: n, QID: -1}
}

// ForQuery targets the discard at a specific open stream.
func (m Discard) ForQuery(qid int64) Discard {
	m.QID = qid
	return m
}

func (Discard) Name() string { return "DISCARD" }

func (m Discard) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgDiscard, 1)
	appendStreamExtra(p, m.N, m.QID)
	return nil
}

// appendStreamExtra packs the {n, qid} extra map shared by PULL and DISCARD,
// omitting qid when it refers to the last query.
func appendStreamExtra(p *packstream.Packer, n, qid int64) {
	if n <= 0 {
		n = -1
	}
	if qid < 0 {
		p.MapHeader(1)
		p.String("n")
		p.Int(n)
		return
	}
	p.MapHeader(2)
	p.String("n")
	p.Int(n)
	p.String("qid")
	p.Int(qid)
}

// Begin opens an explicit transaction. Extra carries the same keys as Run.
type Begin struct {
	Extra *Dict
}

func (Begin) Name() string { return "BEGIN" }

func (m Begin) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgBegin, 1)
	return EncodeValue(p, nonNilDict(m.Extra))
}

// Commit commits the open transaction.
type Commit struct{}

func (Commit) Name() string { return "COMMIT" }

func (Commit) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgCommit, 0)
	return nil
}

// Rollback rolls back the open transaction.
type Rollback struct{}

func (Rollback) Name() string { return "ROLLBACK" }

func (Rollback) appendTo(p *packstream.Packer) error {
	p.StructHeader(msgRollback, 0)
	return nil
}

// EncodeRequest packs a request into a fresh message buffer.
func EncodeRequest(m Request) ([]byte, error) {
	var p packstream.Packer
	p.Begin(nil)
	if err := m.appendTo(&p); err != nil {
		return nil, err
	}
	return p.End()
}

// nonNilDict substitutes an empty dictionary for nil so that parameterized
// requests always carry their map fields.
var emptyDict = &Dict{}

func nonNilDict(d *Dict) *Dict {
	if d == nil {
		return emptyDict
	}
	return d
}
