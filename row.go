package graphbolt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mickamy/graphbolt/bolt"
)

// Row is one record of a result stream: the column names announced by the
// query paired with this record's values.
type Row struct {
	fields []string
	values bolt.List
}

// Fields returns the column names, in query order.
func (r *Row) Fields() []string { return r.fields }

// Values returns the raw column values.
func (r *Row) Values() bolt.List { return r.values }

// Value returns the value of the named column.
func (r *Row) Value(name string) (bolt.Value, bool) {
	for i, f := range r.fields {
		if f == name && i < len(r.values) {
			return r.values[i], true
		}
	}
	return nil, false
}

// Get converts the named column into dst. An unknown column is an error.
func (r *Row) Get(name string, dst any) error {
	v, ok := r.Value(name)
	if !ok {
		return fmt.Errorf("graphbolt: row has no column %q", name)
	}
	return bolt.ConvertValue(v, dst)
}

// Decode maps the row onto dst. A struct pointer matches columns to fields
// by `bolt` tag or case-insensitive name; when the row has a single column,
// any destination that column converts into is also accepted.
func (r *Row) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("graphbolt: decode destination must be a non-nil pointer, got %T", dst)
	}
	elem := rv.Elem()
	if elem.Kind() == reflect.Struct && !isDirectColumn(elem.Type()) {
		return r.decodeStruct(elem)
	}
	if len(r.values) == 1 {
		return bolt.ConvertValue(r.values[0], dst)
	}
	return fmt.Errorf("graphbolt: cannot decode %d-column row into %T", len(r.values), dst)
}

func (r *Row) decodeStruct(rv reflect.Value) error {
	t := rv.Type()
	byName := make(map[string]int, t.NumField())
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
		byName[strings.ToLower(name)] = i
	}

	assigned := make(map[int]struct{}, len(byName))
	for i, col := range r.fields {
		if i >= len(r.values) {
			break
		}
		idx, ok := byName[strings.ToLower(col)]
		if !ok {
			continue
		}
		if err := bolt.ConvertValue(r.values[i], rv.Field(idx).Addr().Interface()); err != nil {
			return fmt.Errorf("graphbolt: column %q: %w", col, err)
		}
		assigned[idx] = struct{}{}
	}
	for name, idx := range byName {
		if _, ok := assigned[idx]; ok {
			continue
		}
		if rv.Field(idx).Kind() != reflect.Pointer {
			return fmt.Errorf("graphbolt: row has no column for required field %q", name)
		}
	}
	return nil
}

// isDirectColumn reports struct types that convert from a single column
// value rather than from column names, such as temporal and spatial values.
func isDirectColumn(t reflect.Type) bool {
	switch t {
	case reflect.TypeOf(bolt.Date{}),
		reflect.TypeOf(bolt.Time{}),
		reflect.TypeOf(bolt.LocalTime{}),
		reflect.TypeOf(bolt.DateTime{}),
		reflect.TypeOf(bolt.DateTimeZoneId{}),
		reflect.TypeOf(bolt.LocalDateTime{}),
		reflect.TypeOf(bolt.LegacyDateTime{}),
		reflect.TypeOf(bolt.LegacyDateTimeZoneId{}),
		reflect.TypeOf(bolt.Duration{}),
		reflect.TypeOf(bolt.Point2D{}),
		reflect.TypeOf(bolt.Point3D{}):
		return true
	}
	return false
}
