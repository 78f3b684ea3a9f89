package bolt

import (
	"fmt"
	"reflect"
	"strings"
)

// ConvertValue assigns a decoded value to dst, a non-nil pointer. Graph
// structures assign to pointers of their own type; primitives and containers
// convert through reflection the same way the property decoder does.
func ConvertValue(v Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bolt: conversion destination must be a non-nil pointer, got %T", dst)
	}
	return convertValue(v, rv.Elem())
}

func convertValue(v Value, rv reflect.Value) error {
	// Exact matches first, including the graph structure pointers.
	if vv := reflect.ValueOf(v); v != nil && vv.Type().AssignableTo(rv.Type()) {
		rv.Set(vv)
		return nil
	}

	if rv.Kind() == reflect.Pointer {
		if _, isNull := v.(Null); isNull || v == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return convertValue(v, rv.Elem())
	}
	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		native, err := Materialize(v)
		if err != nil {
			return err
		}
		if native == nil {
			rv.Set(reflect.Zero(rv.Type()))
		} else {
			rv.Set(reflect.ValueOf(native))
		}
		return nil
	}

	switch v := v.(type) {
	case nil, Null:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case Bool:
		if rv.Kind() != reflect.Bool {
			return convTypeErr(v, rv)
		}
		rv.SetBool(bool(v))
		return nil
	case Int:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if rv.OverflowInt(int64(v)) {
				return fmt.Errorf("bolt: integer %d overflows %s", int64(v), rv.Type())
			}
			rv.SetInt(int64(v))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if v < 0 || rv.OverflowUint(uint64(v)) {
				return fmt.Errorf("bolt: integer %d overflows %s", int64(v), rv.Type())
			}
			rv.SetUint(uint64(v))
		case reflect.Float32, reflect.Float64:
			rv.SetFloat(float64(v))
		default:
			return convTypeErr(v, rv)
		}
		return nil
	case Float:
		if rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64 {
			return convTypeErr(v, rv)
		}
		rv.SetFloat(float64(v))
		return nil
	case String:
		if rv.Kind() != reflect.String {
			return convTypeErr(v, rv)
		}
		rv.SetString(string(v))
		return nil
	case Bytes:
		if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
			return convTypeErr(v, rv)
		}
		rv.SetBytes(append([]byte(nil), v...))
		return nil
	case List:
		if rv.Kind() != reflect.Slice {
			return convTypeErr(v, rv)
		}
		out := reflect.MakeSlice(rv.Type(), len(v), len(v))
		for i, e := range v {
			if err := convertValue(e, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case *Dict:
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return convTypeErr(v, rv)
			}
			out := reflect.MakeMapWithSize(rv.Type(), v.Len())
			elem := rv.Type().Elem()
			for _, e := range v.Entries() {
				ev := reflect.New(elem).Elem()
				if err := convertValue(e.Value, ev); err != nil {
					return err
				}
				out.SetMapIndex(reflect.ValueOf(e.Key), ev)
			}
			rv.Set(out)
			return nil
		case reflect.Struct:
			return convertDictToStruct(v, rv)
		default:
			return convTypeErr(v, rv)
		}
	default:
		return convTypeErr(v, rv)
	}
}

func convertDictToStruct(d *Dict, rv reflect.Value) error {
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
	for _, e := range d.Entries() {
		idx, ok := byName[strings.ToLower(e.Key)]
		if !ok {
			continue
		}
		if err := convertValue(e.Value, rv.Field(idx)); err != nil {
			return fmt.Errorf("bolt: field %q: %w", e.Key, err)
		}
		assigned[idx] = struct{}{}
	}
	for name, idx := range byName {
		if _, ok := assigned[idx]; ok {
			continue
		}
		if rv.Field(idx).Kind() != reflect.Pointer {
			return fmt.Errorf("bolt: missing field %q for %s", name, t)
		}
	}
	return nil
}

// Materialize converts a value into plain Go types: nil, bool, int64,
// float64, string, []byte, []any and map[string]any. Graph structures are
// returned as-is.
func Materialize(v Value) (any, error) {
	switch v := v.(type) {
	case nil, Null:
		return nil, nil
	case Bool:
		return bool(v), nil
	case Int:
		return int64(v), nil
	case Float:
		return float64(v), nil
	case String:
		return string(v), nil
	case Bytes:
		return append([]byte(nil), v...), nil
	case List:
		out := make([]any, len(v))
		for i, e := range v {
			m, err := Materialize(e)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	case *Dict:
		out := make(map[string]any, v.Len())
		for _, e := range v.Entries() {
			m, err := Materialize(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = m
		}
		return out, nil
	default:
		return v, nil
	}
}

func convTypeErr(v Value, rv reflect.Value) error {
	return fmt.Errorf("bolt: cannot convert %T into %s", v, rv.Type())
}
