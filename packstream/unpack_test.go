package packstream_test

import (
	"bytes"
	"testing"

	"github.com/mickamy/graphbolt/packstream"
)

func next(t *testing.T, u *packstream.Unpacker) {
	t.Helper()
	if err := u.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
}

func TestUnpackAcceptsOverWideMarkers(t *testing.T) {
	t.Parallel()

	// 42 written with an int16 marker still decodes to 42.
	tests := []struct {
		name string
		in   []byte
		want int64
	}{
		{"int16 wide", []byte{0xC9, 0x00, 0x2A}, 42},
		{"int32 wide", []byte{0xCA, 0x00, 0x00, 0x00, 0x2A}, 42},
		{"int64 wide", []byte{0xCB, 0, 0, 0, 0, 0, 0, 0, 0x2A}, 42},
		{"int8 wide", []byte{0xC8, 0x2A}, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := packstream.NewUnpacker(tt.in)
			next(t, u)
			if u.Type() != packstream.TypeInt || u.Int() != tt.want {
				t.Errorf("got %s %d, want Int %d", u.Type(), u.Int(), tt.want)
			}
		})
	}
}

func TestUnpackBorrowedSpans(t *testing.T) {
	t.Parallel()

	buf := packed(t, func(p *packstream.Packer) {
		p.String("hello")
		p.Bytes([]byte{9, 8, 7})
	})
	u := packstream.NewUnpacker(buf)

	next(t, u)
	if u.Type() != packstream.TypeString || u.String() != "hello" {
		t.Fatalf("got %s %q", u.Type(), u.String())
	}
	// The span aliases the source buffer.
	if &u.StringBytes()[0] != &buf[1] {
		t.Error("string span does not alias the source buffer")
	}

	next(t, u)
	if u.Type() != packstream.TypeBytes || !bytes.Equal(u.ByteSlice(), []byte{9, 8, 7}) {
		t.Fatalf("got %s %v", u.Type(), u.ByteSlice())
	}
}

func TestUnpackContainers(t *testing.T) {
	t.Parallel()

	buf := packed(t, func(p *packstream.Packer) {
		p.ListHeader(2)
		p.Int(1)
		p.MapHeader(1)
		p.String("k")
		p.Bool(true)
	})
	u := packstream.NewUnpacker(buf)

	next(t, u)
	if u.Type() != packstream.TypeList || u.Len() != 2 {
		t.Fatalf("got %s len %d, want List len 2", u.Type(), u.Len())
	}
	next(t, u)
	if u.Int() != 1 {
		t.Fatalf("got %d, want 1", u.Int())
	}
	next(t, u)
	if u.Type() != packstream.TypeMap || u.Len() != 1 {
		t.Fatalf("got %s len %d, want Map len 1", u.Type(), u.Len())
	}
	next(t, u)
	if u.String() != "k" {
		t.Fatalf("got key %q", u.String())
	}
	next(t, u)
	if u.Type() != packstream.TypeBool || !u.Bool() {
		t.Fatalf("got %s %v", u.Type(), u.Bool())
	}
	if u.More() {
		t.Error("expected end of input")
	}
}

func TestUnpackSkipWholeValues(t *testing.T) {
	t.Parallel()

	buf := packed(t, func(p *packstream.Packer) {
		p.MapHeader(2)
		p.String("nested")
		p.ListHeader(2)
		p.MapHeader(1)
		p.String("x")
		p.Int(1)
		p.String("deep")
		p.String("tail")
		p.Int(7)
	})
	u := packstream.NewUnpacker(buf)

	next(t, u) // map header
	next(t, u) // key "nested"
	if err := u.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	next(t, u) // key "tail"
	if u.String() != "tail" {
		t.Fatalf("got key %q after skip, want %q", u.String(), "tail")
	}
	next(t, u)
	if u.Int() != 7 {
		t.Fatalf("got %d, want 7", u.Int())
	}
}

func TestUnpackRawSpan(t *testing.T) {
	t.Parallel()

	buf := packed(t, func(p *packstream.Packer) {
		p.Int(1)
		p.MapHeader(1)
		p.String("a")
		p.Int(2)
		p.Int(3)
	})
	u := packstream.NewUnpacker(buf)

	next(t, u) // 1
	mark := u.Pos()
	if err := u.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	raw := u.Raw(mark)

	want := packed(t, func(p *packstream.Packer) {
		p.MapHeader(1)
		p.String("a")
		p.Int(2)
	})
	if !bytes.Equal(raw, want) {
		t.Errorf("raw span = %X, want %X", raw, want)
	}

	next(t, u)
	if u.Int() != 3 {
		t.Errorf("got %d after raw capture, want 3", u.Int())
	}
}

func TestUnpackErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
	}{
		{"invalid marker", []byte{0xC7}},
		{"truncated string", []byte{0x85, 'a'}},
		{"truncated int", []byte{0xC9, 0x00}},
		{"empty input", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := packstream.NewUnpacker(tt.in)
			if err := u.Next(); err == nil {
				t.Errorf("expected error for % X", tt.in)
			}
		})
	}
}
