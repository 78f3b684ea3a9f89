package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
)

// State tracks where a connection is in the request/response protocol.
type State int

const (
	StateDisconnected State = iota
	StateNegotiated         // handshake done, HELLO not yet acknowledged
	StateReady
	StateStreaming   // at least one open auto-commit result stream
	StateTxBegun     // explicit transaction open, no open stream
	StateTxStreaming // explicit transaction open with an open stream
	StateFailed      // server reported FAILURE; RESET recovers
	StateInterrupted // cancelled mid-receive; RESET or destroy
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateNegotiated:
		return "Negotiated"
	case StateReady:
		return "Ready"
	case StateStreaming:
		return "Streaming"
	case StateTxBegun:
		return "TxBegun"
	case StateTxStreaming:
		return "TxStreaming"
	case StateFailed:
		return "Failed"
	case StateInterrupted:
		return "Interrupted"
	case StateClosed:
		return "Closed"
	}
	return fmt.Sprintf("UnknownState(%d)", int(s))
}

// handshakeMagic is the preamble every connection opens with.
var handshakeMagic = [4]byte{0x60, 0x60, 0xB0, 0x17}

// ConnConfig carries what a connection needs beyond its socket.
type ConnConfig struct {
	// UserAgent identifies the application, e.g. "my-app/1.0".
	UserAgent string
	// Principal and Credentials authenticate with the "basic" scheme. An
	// empty Principal selects the "none" scheme.
	Principal   string
	Credentials string
	// Logger receives message traces. Nil disables tracing.
	Logger Logger
}

// Conn owns one socket and drives the framed request/response protocol over
// it. At most one request sequence is in flight at a time; callers must
// serialize use, which the pool enforces through exclusive ownership.
type Conn struct {
	netConn net.Conn
	dec     *dechunker
	wbuf    []byte

	id      string
	version Version
	utc     bool
	state   State
	logger  Logger

	// pending is the request whose response sequence is being received.
	pending Request
	// streams counts open result streams on the connection.
	streams int
	// inTx is set between a BEGIN success and the COMMIT/ROLLBACK success.
	inTx bool

	server string
}

// Connect performs the version handshake and HELLO exchange over an
// established socket and returns a connection in the Ready state.
func Connect(ctx context.Context, netConn net.Conn, cfg ConnConfig) (*Conn, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}
	c := &Conn{
		netConn: netConn,
		dec:     newDechunker(netConn),
		id:      uuid.NewString()[:8],
		state:   StateDisconnected,
		logger:  logger,
	}
	if err := c.handshake(ctx); err != nil {
		_ = netConn.Close()
		return nil, err
	}
	if err := c.hello(ctx, cfg); err != nil {
		_ = netConn.Close()
		return nil, err
	}
	return c, nil
}

// ID returns a short identifier for log correlation.
func (c *Conn) ID() string { return c.id }

// Version returns the negotiated protocol version.
func (c *Conn) Version() Version { return c.version }

// ServerAgent returns the server product string from the HELLO response.
func (c *Conn) ServerAgent() string { return c.server }

// State returns the connection's protocol state.
func (c *Conn) State() State { return c.state }

// ---------------- handshake ----------------

func (c *Conn) handshake(ctx context.Context) error {
	c.setDeadline(ctx)

	buf := make([]byte, 0, 20)
	buf = append(buf, handshakeMagic[:]...)
	for _, p := range proposals {
		enc := p.encode()
		buf = append(buf, enc[:]...)
	}
	if _, err := c.netConn.Write(buf); err != nil {
		return fmt.Errorf("bolt: write handshake: %w", err)
	}

	var resp [4]byte
	if _, err := io.ReadFull(c.netConn, resp[:]); err != nil {
		return fmt.Errorf("bolt: read handshake response: %w", err)
	}
	if binary.BigEndian.Uint32(resp[:]) == 0 {
		return ErrUnsupportedVersion
	}
	chosen := Version{Major: resp[3], Minor: resp[2]}
	if !acceptable(chosen) {
		c.state = StateClosed
		return protocolErrf("server chose unproposed version %s", chosen)
	}
	c.version = chosen
	c.utc = chosen.AtLeast(5, 0)
	c.state = StateNegotiated
	c.logger.Debugf("[%s] negotiated protocol %s", c.id, chosen)
	return nil
}

func (c *Conn) hello(ctx context.Context, cfg ConnConfig) error {
	extra := NewDict(8)
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	extra.Set("user_agent", String(userAgent))
	if cfg.Principal != "" {
		extra.Set("scheme", String("basic"))
		extra.Set("principal", String(cfg.Principal))
		extra.Set("credentials", String(cfg.Credentials))
	} else {
		extra.Set("scheme", String("none"))
	}
	if c.version.Major >= 5 {
		agent := NewDict(1)
		agent.Set("product", String(defaultUserAgent))
		extra.Set("bolt_agent", agent)
	}
	// 4.3 and 4.4 opt into UTC-adjusted datetimes via the patch list.
	if c.version.Major == 4 && c.version.Minor >= 3 {
		extra.Set("patch_bolt", List{String("utc")})
	}

	resp, err := c.sendRecv(ctx, Hello{Extra: extra})
	if err != nil {
		return err
	}
	switch resp := resp.(type) {
	case *Success:
		if agent, ok := resp.Meta.GetString("server"); ok {
			c.server = agent
		}
		if patches, ok := resp.Meta.Get("patch_bolt"); ok {
			if l, ok := patches.(List); ok {
				for _, p := range l {
					if p == String("utc") {
						c.utc = true
					}
				}
			}
		}
		c.state = StateReady
		c.logger.Debugf("[%s] connected to %q", c.id, c.server)
		return nil
	case *Failure:
		c.state = StateClosed
		return &AuthenticationError{Code: resp.Code, Message: resp.Message}
	default:
		c.state = StateClosed
		return protocolErrf("unexpected response to HELLO: %T", resp)
	}
}

const defaultUserAgent = "graphbolt/1"

// ---------------- request/response ----------------

// Send dispatches a request. The caller must receive the full response
// sequence before sending again.
func (c *Conn) Send(ctx context.Context, req Request) error {
	if !c.operational() {
		return ErrClosed
	}
	if c.pending != nil {
		return fmt.Errorf("bolt: request %s already in flight", c.pending.Name())
	}

	msg, err := EncodeRequest(c.downgrade(req))
	if err != nil {
		return err
	}
	c.wbuf = appendChunked(c.wbuf[:0], msg)

	c.setDeadline(ctx)
	if _, err := c.netConn.Write(c.wbuf); err != nil {
		c.fail(ctx)
		return fmt.Errorf("bolt: send %s: %w", req.Name(), err)
	}
	c.logger.Debugf("[%s] sent %s (%d bytes)", c.id, req.Name(), len(msg))
	c.pending = req
	return nil
}

// Recv reads the next response for the in-flight request and advances the
// connection state. RECORD responses leave the sequence open; SUCCESS,
// FAILURE and IGNORED complete it.
func (c *Conn) Recv(ctx context.Context) (Response, error) {
	if c.state == StateClosed {
		return nil, ErrClosed
	}
	if c.pending == nil {
		return nil, fmt.Errorf("bolt: no request in flight")
	}

	c.setDeadline(ctx)
	msg, err := c.dec.readMessage()
	if err != nil {
		c.fail(ctx)
		return nil, err
	}
	resp, err := ParseResponse(msg)
	if err != nil {
		// Framing alignment is lost; the connection cannot recover.
		c.state = StateClosed
		_ = c.netConn.Close()
		return nil, err
	}
	c.transition(resp)
	return resp, nil
}

func (c *Conn) sendRecv(ctx context.Context, req Request) (Response, error) {
	if err := c.Send(ctx, req); err != nil {
		return nil, err
	}
	return c.Recv(ctx)
}

// Ask dispatches a request that expects a single SUCCESS. FAILURE is
// surfaced as *ServerError, IGNORED as *IgnoredError.
func (c *Conn) Ask(ctx context.Context, req Request) (*Success, error) {
	resp, err := c.sendRecv(ctx, req)
	if err != nil {
		return nil, err
	}
	switch resp := resp.(type) {
	case *Success:
		return resp, nil
	case *Failure:
		return nil, &ServerError{Code: resp.Code, Message: resp.Message, Context: req.Name()}
	case Ignored:
		return nil, &IgnoredError{Context: req.Name()}
	default:
		c.state = StateClosed
		_ = c.netConn.Close()
		return nil, protocolErrf("unexpected response to %s: %T", req.Name(), resp)
	}
}

// transition applies the (state, request, response) table.
func (c *Conn) transition(resp Response) {
	req := c.pending
	switch resp := resp.(type) {
	case *Record:
		// Sequence still open; no state change.
		return
	case *Failure:
		c.pending = nil
		c.streams = 0
		c.state = StateFailed
		c.logger.Debugf("[%s] %s failed: %s", c.id, req.Name(), resp.Code)
	case Ignored:
		c.pending = nil
		c.logger.Debugf("[%s] %s ignored", c.id, req.Name())
	case *Success:
		c.pending = nil
		switch req.(type) {
		case Hello:
			c.state = StateReady
		case Run:
			c.streams++
			c.setStreamingState()
		case Pull, Discard:
			if !resp.HasMore() {
				c.closeStream()
			}
		case Begin:
			c.inTx = true
			c.state = StateTxBegun
		case Commit, Rollback, Reset:
			c.inTx = false
			c.streams = 0
			c.state = StateReady
		}
	}
}

func (c *Conn) setStreamingState() {
	if c.inTx {
		c.state = StateTxStreaming
	} else {
		c.state = StateStreaming
	}
}

func (c *Conn) closeStream() {
	if c.streams > 0 {
		c.streams--
	}
	switch {
	case c.streams > 0:
		c.setStreamingState()
	case c.inTx:
		c.state = StateTxBegun
	default:
		c.state = StateReady
	}
}

// ---------------- recovery and shutdown ----------------

// Reset clears server-side state. It discards any interleaved responses
// still on the wire and leaves the connection Ready.
func (c *Conn) Reset(ctx context.Context) error {
	if !c.operational() && c.state != StateInterrupted {
		return ErrClosed
	}
	interrupted := c.pending != nil
	c.pending = nil

	msg, err := EncodeRequest(Reset{})
	if err != nil {
		return err
	}
	c.wbuf = appendChunked(c.wbuf[:0], msg)
	c.setDeadline(ctx)
	if _, err := c.netConn.Write(c.wbuf); err != nil {
		c.state = StateClosed
		_ = c.netConn.Close()
		return fmt.Errorf("bolt: send RESET: %w", err)
	}

	// A request abandoned mid-sequence still owes its terminal response.
	// The server may complete it normally before acting on the RESET, so
	// that SUCCESS (or FAILURE/IGNORED) is not the RESET ack and must be
	// drained first.
	if interrupted {
		if err := c.drainSequence(); err != nil {
			return err
		}
	}

	// Now read the RESET's own acknowledgement.
	for {
		resp, err := c.readResponse()
		if err != nil {
			return err
		}
		switch resp := resp.(type) {
		case *Success:
			c.inTx = false
			c.streams = 0
			c.state = StateReady
			c.logger.Debugf("[%s] reset", c.id)
			return nil
		case *Failure:
			c.state = StateClosed
			_ = c.netConn.Close()
			return &ServerError{Code: resp.Code, Message: resp.Message, Context: "RESET"}
		case Ignored, *Record:
			continue
		}
	}
}

// drainSequence consumes responses up to and including the terminal
// SUCCESS, FAILURE or IGNORED of the current sequence.
func (c *Conn) drainSequence() error {
	for {
		resp, err := c.readResponse()
		if err != nil {
			return err
		}
		if _, ok := resp.(*Record); !ok {
			return nil
		}
	}
}

// readResponse reads and parses one message without touching the state
// machine, closing the connection on any read or framing error.
func (c *Conn) readResponse() (Response, error) {
	msg, err := c.dec.readMessage()
	if err != nil {
		c.state = StateClosed
		_ = c.netConn.Close()
		return nil, err
	}
	resp, err := ParseResponse(msg)
	if err != nil {
		c.state = StateClosed
		_ = c.netConn.Close()
		return nil, err
	}
	return resp, nil
}

// Close sends a best-effort GOODBYE and closes the socket.
func (c *Conn) Close() error {
	if c.state == StateClosed {
		return nil
	}
	if c.state != StateDisconnected {
		if msg, err := EncodeRequest(Goodbye{}); err == nil {
			_ = c.netConn.SetDeadline(time.Now().Add(time.Second))
			_, _ = c.netConn.Write(appendChunked(nil, msg))
		}
	}
	c.state = StateClosed
	c.logger.Debugf("[%s] closed", c.id)
	return c.netConn.Close()
}

// fail marks the connection unusable after an I/O error. Cancellation
// mid-receive leaves it Interrupted so the pool may still RESET it.
func (c *Conn) fail(ctx context.Context) {
	if ctx.Err() != nil && c.state != StateClosed {
		// The pending request stays recorded so Reset drains its responses.
		c.state = StateInterrupted
		_ = c.netConn.SetDeadline(time.Time{})
		return
	}
	c.pending = nil
	c.state = StateClosed
	_ = c.netConn.Close()
}

func (c *Conn) operational() bool {
	switch c.state {
	case StateReady, StateStreaming, StateTxBegun, StateTxStreaming, StateFailed, StateNegotiated:
		return true
	}
	return false
}

func (c *Conn) setDeadline(ctx context.Context) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	_ = c.netConn.SetDeadline(deadline)
}

// downgrade rewrites UTC-adjusted temporal values into their legacy forms
// when the negotiated version predates them.
func (c *Conn) downgrade(req Request) Request {
	if c.utc {
		return req
	}
	if run, ok := req.(Run); ok {
		run.Params = downgradeDict(run.Params)
		return run
	}
	return req
}

func downgradeDict(d *Dict) *Dict {
	if d == nil {
		return nil
	}
	out := NewDict(d.Len())
	for _, e := range d.Entries() {
		out.Set(e.Key, downgradeValue(e.Value))
	}
	return out
}

func downgradeValue(v Value) Value {
	switch v := v.(type) {
	case DateTime:
		// The legacy form stores local seconds, the UTC form stores
		// offset-adjusted seconds; both shift by the offset once.
		return LegacyDateTime{
			Seconds:       v.Seconds + 2*int64(v.OffsetSeconds),
			Nanos:         v.Nanos,
			OffsetSeconds: v.OffsetSeconds,
		}
	case DateTimeZoneId:
		t, err := v.AsTime()
		if err != nil {
			return v
		}
		_, offset := t.Zone()
		return LegacyDateTimeZoneId{
			Seconds: v.Seconds + int64(offset),
			Nanos:   v.Nanos,
			ZoneID:  v.ZoneID,
		}
	case List:
		out := make(List, len(v))
		for i, e := range v {
			out[i] = downgradeValue(e)
		}
		return out
	case *Dict:
		return downgradeDict(v)
	default:
		return v
	}
}
