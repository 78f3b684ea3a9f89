package bolt_test

import (
	"errors"
	"testing"

	"github.com/mickamy/graphbolt/bolt"
	"github.com/mickamy/graphbolt/packstream"
)

func msg(t *testing.T, fn func(p *packstream.Packer)) []byte {
	t.Helper()
	var p packstream.Packer
	p.Begin(nil)
	fn(&p)
	buf, err := p.End()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return buf
}

func TestParseSuccessMetadata(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) {
		p.StructHeader(0x70, 1)
		p.MapHeader(3)
		p.String("fields")
		p.ListHeader(2)
		p.String("n")
		p.String("m")
		p.String("qid")
		p.Int(7)
		p.String("t_first")
		p.Int(3)
	})
	resp, err := bolt.ParseResponse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, ok := resp.(*bolt.Success)
	if !ok {
		t.Fatalf("got %T", resp)
	}
	if fields := s.Fields(); len(fields) != 2 || fields[0] != "n" || fields[1] != "m" {
		t.Errorf("fields = %v", fields)
	}
	if qid, ok := s.QID(); !ok || qid != 7 {
		t.Errorf("qid = %d %v", qid, ok)
	}
	if tf, ok := s.TFirst(); !ok || tf != 3 {
		t.Errorf("t_first = %d %v", tf, ok)
	}
	if s.HasMore() {
		t.Error("absent has_more must read as false")
	}
}

func TestParseSuccessHasMore(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) {
		p.StructHeader(0x70, 1)
		p.MapHeader(1)
		p.String("has_more")
		p.Bool(true)
	})
	resp, err := bolt.ParseResponse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !resp.(*bolt.Success).HasMore() {
		t.Error("has_more = false, want true")
	}
}

func TestParseFailure(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) {
		p.StructHeader(0x7F, 1)
		p.MapHeader(2)
		p.String("code")
		p.String("Neo.ClientError.Statement.SyntaxError")
		p.String("message")
		p.String("oops")
	})
	resp, err := bolt.ParseResponse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := resp.(*bolt.Failure)
	if f.Code != "Neo.ClientError.Statement.SyntaxError" || f.Message != "oops" {
		t.Errorf("got %+v", f)
	}
}

func TestParseIgnored(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) {
		p.StructHeader(0x7E, 0)
	})
	resp, err := bolt.ParseResponse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := resp.(bolt.Ignored); !ok {
		t.Errorf("got %T", resp)
	}
}

func TestParseRecordStaysDeferred(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) {
		p.StructHeader(0x71, 1)
		p.ListHeader(2)
		p.Int(1)
		p.String("x")
	})
	resp, err := bolt.ParseResponse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := resp.(*bolt.Record)

	// Values decodes on demand, repeatably.
	for range 2 {
		values, err := r.Values()
		if err != nil {
			t.Fatalf("values: %v", err)
		}
		if len(values) != 2 || values[0] != bolt.Int(1) || values[1] != bolt.String("x") {
			t.Errorf("values = %#v", values)
		}
	}
}

func TestParseUnknownTagIsProtocolViolation(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) {
		p.StructHeader(0x55, 0)
	})
	_, err := bolt.ParseResponse(buf)
	var pe *bolt.ProtocolError
	if !errors.As(err, &pe) {
		t.Errorf("got %v, want ProtocolError", err)
	}
}

func TestParseNonStructIsProtocolViolation(t *testing.T) {
	t.Parallel()

	buf := msg(t, func(p *packstream.Packer) { p.Int(1) })
	_, err := bolt.ParseResponse(buf)
	var pe *bolt.ProtocolError
	if !errors.As(err, &pe) {
		t.Errorf("got %v, want ProtocolError", err)
	}
}
