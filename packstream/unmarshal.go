package packstream

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Unmarshal decodes a PackStream map payload into dst.
//
// dst must be a non-nil pointer to a struct, a map[string]any, or any
// destination a single map value could decode into. For structs, entries are
// matched to fields by the `bolt` tag, falling back to a case-insensitive
// match on the field name. Unknown keys are skipped. A duplicate key is an
// error. After the walk, any non-pointer field that was never assigned is
// reported as a missing-field error; pointer fields are optional and stay nil
// when absent.
//
// The cursor is reset before decoding, so Unmarshal may be called repeatedly
// on the same Data.
func Unmarshal(d *Data, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("packstream: unmarshal destination must be a non-nil pointer, got %T", dst)
	}
	u := d.Unpacker()
	return decodeValue(u, rv.Elem())
}

// Keys walks a map payload and returns its keys in wire order, skipping all
// values. Key uniqueness and UTF-8 validity are enforced.
func Keys(d *Data) ([]string, error) {
	u := d.Unpacker()
	n, err := mapHeader(u)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for range n {
		key, err := mapKey(u, seen)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		if err := u.Skip(); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// Single walks a map payload and decodes only the entry named key into dst,
// skipping everything else. It reports whether the key was present. Decoding
// an absent key is not an error.
func Single(d *Data, key string, dst any) (bool, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("packstream: unmarshal destination must be a non-nil pointer, got %T", dst)
	}
	u := d.Unpacker()
	n, err := mapHeader(u)
	if err != nil {
		return false, err
	}
	found := false
	seen := make(map[string]struct{}, n)
	for range n {
		k, err := mapKey(u, seen)
		if err != nil {
			return false, err
		}
		if k != key {
			if err := u.Skip(); err != nil {
				return false, err
			}
			continue
		}
		if err := decodeValue(u, rv.Elem()); err != nil {
			return false, err
		}
		found = true
	}
	return found, nil
}

func mapHeader(u *Unpacker) (int, error) {
	if err := u.Next(); err != nil {
		return 0, err
	}
	if u.Type() != TypeMap {
		return 0, fmt.Errorf("packstream: expected map, got %s", u.Type())
	}
	return u.Len(), nil
}

// mapKey reads the next map key, enforcing UTF-8 validity and uniqueness.
func mapKey(u *Unpacker, seen map[string]struct{}) (string, error) {
	if err := u.Next(); err != nil {
		return "", err
	}
	if u.Type() != TypeString {
		return "", fmt.Errorf("packstream: map key must be a string, got %s", u.Type())
	}
	if !utf8.Valid(u.StringBytes()) {
		return "", fmt.Errorf("packstream: map key is not valid UTF-8")
	}
	key := u.String()
	if _, dup := seen[key]; dup {
		return "", fmt.Errorf("packstream: duplicate map key %q", key)
	}
	seen[key] = struct{}{}
	return key, nil
}

// decodeValue consumes the next value and assigns it to rv.
func decodeValue(u *Unpacker, rv reflect.Value) error {
	if rv.Kind() == reflect.Pointer {
		mark := u.pos
		if err := u.Next(); err != nil {
			return err
		}
		if u.Type() == TypeNull {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		u.pos = mark
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(u, rv.Elem())
	}
	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		v, err := decodeAny(u)
		if err != nil {
			return err
		}
		if v == nil {
			rv.Set(reflect.Zero(rv.Type()))
		} else {
			rv.Set(reflect.ValueOf(v))
		}
		return nil
	}
	if rv.Kind() == reflect.Struct {
		return decodeStruct(u, rv)
	}
	if rv.Kind() == reflect.Map {
		return decodeMap(u, rv)
	}

	if err := u.Next(); err != nil {
		return err
	}
	switch u.Type() {
	case TypeNull:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case TypeBool:
		if rv.Kind() != reflect.Bool {
			return convErr(u, rv)
		}
		rv.SetBool(u.Bool())
		return nil
	case TypeInt:
		return assignInt(u, rv, u.Int())
	case TypeFloat:
		if rv.Kind() != reflect.Float64 && rv.Kind() != reflect.Float32 {
			return convErr(u, rv)
		}
		rv.SetFloat(u.Float())
		return nil
	case TypeString:
		if rv.Kind() != reflect.String {
			return convErr(u, rv)
		}
		rv.SetString(u.String())
		return nil
	case TypeBytes:
		if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
			return convErr(u, rv)
		}
		rv.SetBytes(append([]byte(nil), u.ByteSlice()...))
		return nil
	case TypeList:
		return decodeSlice(u, rv, u.Len())
	default:
		return convErr(u, rv)
	}
}

func assignInt(u *Unpacker, rv reflect.Value, i int64) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(i) {
			return fmt.Errorf("packstream: integer %d overflows %s", i, rv.Type())
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return fmt.Errorf("packstream: integer %d overflows %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(float64(i))
	default:
		return convErr(u, rv)
	}
	return nil
}

func decodeSlice(u *Unpacker, rv reflect.Value, n int) error {
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("packstream: cannot decode list into %s", rv.Type())
	}
	out := reflect.MakeSlice(rv.Type(), n, n)
	for i := range n {
		if err := decodeValue(u, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func decodeMap(u *Unpacker, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("packstream: map destination must have string keys, got %s", rv.Type())
	}
	n, err := mapHeader(u)
	if err != nil {
		return err
	}
	out := reflect.MakeMapWithSize(rv.Type(), n)
	seen := make(map[string]struct{}, n)
	elem := rv.Type().Elem()
	for range n {
		key, err := mapKey(u, seen)
		if err != nil {
			return err
		}
		ev := reflect.New(elem).Elem()
		if err := decodeValue(u, ev); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(key), ev)
	}
	rv.Set(out)
	return nil
}

func decodeStruct(u *Unpacker, rv reflect.Value) error {
	n, err := mapHeader(u)
	if err != nil {
		return err
	}
	fields := structFields(rv.Type())
	assigned := make(map[string]struct{}, len(fields))
	seen := make(map[string]struct{}, n)
	for range n {
		key, err := mapKey(u, seen)
		if err != nil {
			return err
		}
		idx, ok := fields[strings.ToLower(key)]
		if !ok {
			if err := u.Skip(); err != nil {
				return err
			}
			continue
		}
		if err := decodeValue(u, rv.Field(idx)); err != nil {
			return fmt.Errorf("packstream: field %q: %w", key, err)
		}
		assigned[strings.ToLower(key)] = struct{}{}
	}
	// Non-pointer fields are required; pointer fields stay nil when absent.
	for name, idx := range fields {
		if _, ok := assigned[name]; ok {
			continue
		}
		if rv.Field(idx).Kind() != reflect.Pointer {
			return fmt.Errorf("packstream: missing field %q for %s", name, rv.Type())
		}
	}
	return nil
}

// structFields maps the lower-cased wire name of each settable field to its
// index. The `bolt` tag overrides the field name; "-" excludes the field.
func structFields(t reflect.Type) map[string]int {
	fields := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("bolt"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		fields[strings.ToLower(name)] = i
	}
	return fields
}

// decodeAny consumes the next value into generic Go values: nil, bool, int64,
// float64, string, []byte, []any and map[string]any.
func decodeAny(u *Unpacker) (any, error) {
	if err := u.Next(); err != nil {
		return nil, err
	}
	switch u.Type() {
	case TypeNull:
		return nil, nil
	case TypeBool:
		return u.Bool(), nil
	case TypeInt:
		return u.Int(), nil
	case TypeFloat:
		return u.Float(), nil
	case TypeString:
		return u.String(), nil
	case TypeBytes:
		return append([]byte(nil), u.ByteSlice()...), nil
	case TypeList:
		n := u.Len()
		out := make([]any, n)
		for i := range n {
			v, err := decodeAny(u)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TypeMap:
		n := u.Len()
		out := make(map[string]any, n)
		seen := make(map[string]struct{}, n)
		for range n {
			key, err := mapKey(u, seen)
			if err != nil {
				return nil, err
			}
			v, err := decodeAny(u)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("packstream: cannot decode %s into any", u.Type())
	}
}

func convErr(u *Unpacker, rv reflect.Value) error {
	return fmt.Errorf("packstream: cannot decode %s into %s", u.Type(), rv.Type())
}
