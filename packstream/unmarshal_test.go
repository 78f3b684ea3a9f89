package packstream_test

import (
	"strings"
	"testing"

	"github.com/mickamy/graphbolt/packstream"
)

// props packs the {age: 1337, name: "Alice", tags: ["a","b"]} fixture.
func props(t *testing.T) *packstream.Data {
	t.Helper()
	return packstream.NewData(packed(t, func(p *packstream.Packer) {
		p.MapHeader(3)
		p.String("age")
		p.Int(1337)
		p.String("name")
		p.String("Alice")
		p.String("tags")
		p.ListHeader(2)
		p.String("a")
		p.String("b")
	}))
}

func TestUnmarshalStruct(t *testing.T) {
	t.Parallel()

	type person struct {
		Name string
		Age  int64
		Tags []string
	}
	var got person
	if err := packstream.Unmarshal(props(t), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "Alice" || got.Age != 1337 {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "a" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestUnmarshalSubsetOfFields(t *testing.T) {
	t.Parallel()

	// Naming only some keys succeeds; the rest are skipped.
	type onlyName struct {
		Name string
	}
	var got onlyName
	if err := packstream.Unmarshal(props(t), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestUnmarshalMissingRequiredField(t *testing.T) {
	t.Parallel()

	type needsEmail struct {
		Name  string
		Email string
	}
	var got needsEmail
	err := packstream.Unmarshal(props(t), &got)
	if err == nil {
		t.Fatal("expected missing-field error")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestUnmarshalOptionalPointerField(t *testing.T) {
	t.Parallel()

	type person struct {
		Name  string
		Email *string
	}
	var got person
	if err := packstream.Unmarshal(props(t), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Email != nil {
		t.Errorf("email = %v, want nil", *got.Email)
	}
}

func TestUnmarshalTag(t *testing.T) {
	t.Parallel()

	type person struct {
		FullName string `bolt:"name"`
	}
	var got person
	if err := packstream.Unmarshal(props(t), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.FullName != "Alice" {
		t.Errorf("full name = %q", got.FullName)
	}
}

func TestUnmarshalIntoMap(t *testing.T) {
	t.Parallel()

	var got map[string]any
	if err := packstream.Unmarshal(props(t), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["age"] != int64(1337) || got["name"] != "Alice" {
		t.Errorf("got %v", got)
	}
}

func TestUnmarshalIsIdempotent(t *testing.T) {
	t.Parallel()

	d := props(t)
	for range 3 {
		var got map[string]any
		if err := packstream.Unmarshal(d, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["name"] != "Alice" {
			t.Errorf("got %v", got)
		}
	}
}

func TestUnmarshalDuplicateKey(t *testing.T) {
	t.Parallel()

	d := packstream.NewData(packed(t, func(p *packstream.Packer) {
		p.MapHeader(2)
		p.String("a")
		p.Int(1)
		p.String("a")
		p.Int(2)
	}))
	var got map[string]any
	if err := packstream.Unmarshal(d, &got); err == nil {
		t.Error("expected duplicate-key error")
	}
}

func TestUnmarshalInvalidUTF8Key(t *testing.T) {
	t.Parallel()

	// A one-byte key that is not valid UTF-8.
	buf := packed(t, func(p *packstream.Packer) {
		p.MapHeader(1)
		p.String("x")
		p.Int(1)
	})
	buf[2] = 0xFF // corrupt the key byte
	var got map[string]any
	if err := packstream.Unmarshal(packstream.NewData(buf), &got); err == nil {
		t.Error("expected invalid-UTF-8 error")
	}
}

func TestKeysInWireOrder(t *testing.T) {
	t.Parallel()

	keys, err := packstream.Keys(props(t))
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"age", "name", "tags"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSingle(t *testing.T) {
	t.Parallel()

	d := props(t)

	var age int64
	ok, err := packstream.Single(d, "age", &age)
	if err != nil || !ok || age != 1337 {
		t.Errorf("age: ok=%v err=%v age=%d", ok, err, age)
	}

	// Decoding the same field again returns the same value.
	var again int64
	ok, err = packstream.Single(d, "age", &again)
	if err != nil || !ok || again != age {
		t.Errorf("second decode: ok=%v err=%v age=%d", ok, err, again)
	}

	// Fields decode in any order.
	var name string
	ok, err = packstream.Single(d, "name", &name)
	if err != nil || !ok || name != "Alice" {
		t.Errorf("name: ok=%v err=%v name=%q", ok, err, name)
	}

	// An absent field reports not-present, not an error.
	var missing string
	ok, err = packstream.Single(d, "missing", &missing)
	if err != nil {
		t.Errorf("missing field errored: %v", err)
	}
	if ok {
		t.Error("missing field reported present")
	}
}
