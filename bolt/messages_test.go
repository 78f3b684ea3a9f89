package bolt_test

import (
	"bytes"
	"testing"

	"github.com/mickamy/graphbolt/bolt"
	"github.com/mickamy/graphbolt/packstream"
)

func TestEncodeDiscardForQuery(t *testing.T) {
	t.Parallel()

	got, err := bolt.EncodeRequest(bolt.DiscardN(42).ForQuery(1))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		0xB1, 0x2F, // struct 1 field, DISCARD
		0xA2,             // map of 2
		0x81, 'n', 0x2A, // "n": 42
		0x83, 'q', 'i', 'd', 0x01, // "qid": 1
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestEncodePullOmitsLastQueryQID(t *testing.T) {
	t.Parallel()

	got, err := bolt.EncodeRequest(bolt.PullAll())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		0xB1, 0x3F,
		0xA1,
		0x81, 'n', 0xFF, // "n": -1 as a tiny int
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestPullNormalizesNonPositiveCount(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, -5} {
		pull := bolt.PullN(n)
		if pull.N != -1 {
			t.Errorf("PullN(%d).N = %d, want -1", n, pull.N)
		}
	}
	if d := bolt.DiscardN(0); d.N != -1 {
		t.Errorf("DiscardN(0).N = %d, want -1", d.N)
	}
}

func TestEncodeRun(t *testing.T) {
	t.Parallel()

	params := bolt.NewDict(1)
	params.Set("name", bolt.String("Alice"))
	got, err := bolt.EncodeRequest(bolt.Run{Query: "RETURN $name", Params: params})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	u := packstream.NewUnpacker(got)
	if err := u.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if u.Type() != packstream.TypeStruct || u.StructTag() != 0x10 || u.Len() != 3 {
		t.Fatalf("header = %s tag %02X len %d, want Struct 10 len 3", u.Type(), u.StructTag(), u.Len())
	}
	if err := u.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if u.String() != "RETURN $name" {
		t.Errorf("query = %q", u.String())
	}
}

func TestEncodeRunNilDictsBecomeEmptyMaps(t *testing.T) {
	t.Parallel()

	got, err := bolt.EncodeRequest(bolt.Run{Query: "RETURN 1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// struct(3) tag, tiny string(8), query bytes, then two empty maps.
	tail := got[len(got)-2:]
	if tail[0] != 0xA0 || tail[1] != 0xA0 {
		t.Errorf("tail = % X, want A0 A0", tail)
	}
}

func TestEncodeBareRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		req  bolt.Request
		want []byte
	}{
		{bolt.Goodbye{}, []byte{0xB0, 0x02}},
		{bolt.Reset{}, []byte{0xB0, 0x0F}},
		{bolt.Commit{}, []byte{0xB0, 0x12}},
		{bolt.Rollback{}, []byte{0xB0, 0x13}},
	}
	for _, tt := range tests {
		got, err := bolt.EncodeRequest(tt.req)
		if err != nil {
			t.Fatalf("encode %s: %v", tt.req.Name(), err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("%s = % X, want % X", tt.req.Name(), got, tt.want)
		}
	}
}
