package bolt

import (
	"fmt"
	"math"
	"time"
)

// Value is the sum of every type the wire protocol can carry.
//
// Decoded Bytes values and the deferred property payloads inside graph
// structures borrow from the message buffer they arrived in. CloneOwned
// produces a deep copy detached from any wire buffer.
type Value interface {
	isValue()
}

type Null struct{}

type Bool bool

type Int int64

type Float float64

// Bytes is a byte string. Decoded instances alias the wire buffer.
type Bytes []byte

type String string

// List is an ordered sequence of values.
type List []Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Bytes) isValue()  {}
func (String) isValue() {}
func (List) isValue()   {}

// ValueOf converts a Go value into a Value. Supported inputs: nil, bool, all
// signed and unsigned integers, float32/64, string, []byte, []any,
// map[string]any, time.Duration (as Duration), and anything already a Value.
func ValueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint64:
		return uintValue(v)
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case []byte:
		return Bytes(v), nil
	case time.Duration:
		return DurationOf(v), nil
	case []any:
		out := make(List, len(v))
		for i, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case map[string]any:
		return DictFromMap(v)
	default:
		return nil, fmt.Errorf("bolt: cannot convert %T to a value", v)
	}
}

func uintValue(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("bolt: integer %d overflows the wire integer range", v)
	}
	return Int(v), nil
}

// CloneOwned deep-copies v into independently owned storage. Deferred
// property payloads are copied as raw bytes without being decoded, so a
// malformed payload is not detected here.
func CloneOwned(v Value) (Value, error) {
	switch v := v.(type) {
	case Bytes:
		return Bytes(append([]byte(nil), v...)), nil
	case List:
		out := make(List, len(v))
		for i, e := range v {
			c, err := CloneOwned(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case *Dict:
		out := NewDict(v.Len())
		for _, e := range v.Entries() {
			c, err := CloneOwned(e.Value)
			if err != nil {
				return nil, err
			}
			if err := out.Add(e.Key, c); err != nil {
				return nil, err
			}
		}
		return out, nil
	case *Node:
		return v.cloneOwned()
	case *Relationship:
		return v.cloneOwned()
	case *UnboundRelationship:
		return v.cloneOwned()
	case *Path:
		return v.cloneOwned()
	default:
		// Remaining variants hold no references into wire buffers.
		return v, nil
	}
}
