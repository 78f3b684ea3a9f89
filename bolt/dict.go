package bolt

import (
	"fmt"
	"sort"
)

// DictEntry is a single key-value pair of a Dict.
type DictEntry struct {
	Key   string
	Value Value
}

// Dict is a dictionary with unique string keys. Insertion order is preserved
// so that serialization is stable.
type Dict struct {
	entries []DictEntry
}

func (*Dict) isValue() {}

// NewDict returns an empty Dict with room for n entries.
func NewDict(n int) *Dict {
	return &Dict{entries: make([]DictEntry, 0, n)}
}

// DictOf builds a Dict from entries, in order. Duplicate keys are an error.
func DictOf(entries ...DictEntry) (*Dict, error) {
	d := NewDict(len(entries))
	for _, e := range entries {
		if err := d.Add(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DictFromMap converts a Go map. Keys are sorted so the result is stable.
func DictFromMap(m map[string]any) (*Dict, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := NewDict(len(m))
	for _, k := range keys {
		v, err := ValueOf(m[k])
		if err != nil {
			return nil, fmt.Errorf("bolt: key %q: %w", k, err)
		}
		if err := d.Add(k, v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Add appends an entry. Adding a key that is already present is an error.
func (d *Dict) Add(key string, v Value) error {
	if _, ok := d.Get(key); ok {
		return fmt.Errorf("bolt: duplicate dictionary key %q", key)
	}
	d.entries = append(d.entries, DictEntry{Key: key, Value: v})
	return nil
}

// Set appends an entry or replaces the value of an existing key.
func (d *Dict) Set(key string, v Value) {
	for i := range d.entries {
		if d.entries[i].Key == key {
			d.entries[i].Value = v
			return
		}
	}
	d.entries = append(d.entries, DictEntry{Key: key, Value: v})
}

// Get returns the value for key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	for _, e := range d.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns the entries in insertion order. The slice is shared; do
// not mutate.
func (d *Dict) Entries() []DictEntry {
	if d == nil {
		return nil
	}
	return d.entries
}

// GetString returns the value for key if it is a String.
func (d *Dict) GetString(key string) (string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// GetInt returns the value for key if it is an Int.
func (d *Dict) GetInt(key string) (int64, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(Int)
	return int64(i), ok
}

// GetBool returns the value for key if it is a Bool.
func (d *Dict) GetBool(key string) (bool, bool) {
	v, ok := d.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(Bool)
	return bool(b), ok
}
