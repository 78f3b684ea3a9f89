package packstream

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Type classifies the token an Unpacker is positioned on.
type Type uint8

const (
	TypeNone Type = iota
	TypeNull
	TypeBool
	TypeInt
	TypeFloat
	TypeBytes
	TypeString
	TypeList
	TypeMap
	TypeStruct
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeBool:
		return "Bool"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBytes:
		return "Bytes"
	case TypeString:
		return "String"
	case TypeList:
		return "List"
	case TypeMap:
		return "Map"
	case TypeStruct:
		return "Struct"
	}
	return fmt.Sprintf("UnknownType(%d)", uint8(t))
}

// Unpacker is a cursor over a single PackStream-encoded message.
//
// Next advances to the next token. Scalar payloads are consumed together with
// their marker; for lists, maps and structures only the header is consumed
// and the caller iterates Len entries (pairs, for maps) itself.
//
// String and byte payload accessors return sub-slices of the source buffer.
// They stay valid as long as the buffer does; copy before mutating.
type Unpacker struct {
	buf []byte
	pos int

	typ    Type
	length int
	tag    byte
	ival   int64
	fval   float64
	bval   bool
	span   []byte
}

// NewUnpacker returns an Unpacker positioned before the first token of buf.
func NewUnpacker(buf []byte) *Unpacker {
	return &Unpacker{buf: buf}
}

// Reset repositions the cursor at the start of the buffer.
func (u *Unpacker) Reset() {
	u.pos = 0
	u.typ = TypeNone
}

// Pos returns the current byte offset into the buffer.
func (u *Unpacker) Pos() int { return u.pos }

// Raw returns the raw bytes between a previous position (from Pos) and the
// current cursor, borrowed from the source buffer.
func (u *Unpacker) Raw(from int) []byte { return u.buf[from:u.pos] }

// More reports whether any bytes remain.
func (u *Unpacker) More() bool { return u.pos < len(u.buf) }

// Type returns the type of the current token.
func (u *Unpacker) Type() Type { return u.typ }

// Len returns the entry count of the current list, map or structure token,
// or the payload length of the current string or bytes token.
func (u *Unpacker) Len() int { return u.length }

// StructTag returns the tag byte of the current structure token.
func (u *Unpacker) StructTag() byte { return u.tag }

// Int returns the current integer token's value.
func (u *Unpacker) Int() int64 { return u.ival }

// Bool returns the current boolean token's value.
func (u *Unpacker) Bool() bool { return u.bval }

// Float returns the current float token's value, bit-exact.
func (u *Unpacker) Float() float64 { return u.fval }

// ByteSlice returns the current byte-string payload, borrowed.
func (u *Unpacker) ByteSlice() []byte { return u.span }

// StringBytes returns the current string payload as bytes, borrowed.
func (u *Unpacker) StringBytes() []byte { return u.span }

// String returns the current string payload as an owned string.
func (u *Unpacker) String() string { return string(u.span) }

// Next advances to the next token and classifies it.
func (u *Unpacker) Next() error {
	marker, err := u.readByte()
	if err != nil {
		return err
	}

	switch {
	case marker <= 0x7F: // tiny positive int
		u.typ, u.ival = TypeInt, int64(marker)
	case marker >= 0xF0: // tiny negative int
		u.typ, u.ival = TypeInt, int64(int8(marker))

	case marker&0xF0 == markerTinyString:
		return u.str(int(marker & 0x0F))
	case marker&0xF0 == markerTinyList:
		u.typ, u.length = TypeList, int(marker&0x0F)
	case marker&0xF0 == markerTinyMap:
		u.typ, u.length = TypeMap, int(marker&0x0F)
	case marker&0xF0 == markerTinyStruct:
		tag, err := u.readByte()
		if err != nil {
			return err
		}
		u.typ, u.length, u.tag = TypeStruct, int(marker&0x0F), tag

	case marker == markerNull:
		u.typ = TypeNull
	case marker == markerTrue:
		u.typ, u.bval = TypeBool, true
	case marker == markerFalse:
		u.typ, u.bval = TypeBool, false
	case marker == markerFloat:
		bits, err := u.readUint(8)
		if err != nil {
			return err
		}
		u.typ, u.fval = TypeFloat, math.Float64frombits(bits)

	case marker == markerInt8:
		b, err := u.readByte()
		if err != nil {
			return err
		}
		u.typ, u.ival = TypeInt, int64(int8(b))
	case marker == markerInt16:
		v, err := u.readUint(2)
		if err != nil {
			return err
		}
		u.typ, u.ival = TypeInt, int64(int16(v))
	case marker == markerInt32:
		v, err := u.readUint(4)
		if err != nil {
			return err
		}
		u.typ, u.ival = TypeInt, int64(int32(v))
	case marker == markerInt64:
		v, err := u.readUint(8)
		if err != nil {
			return err
		}
		u.typ, u.ival = TypeInt, int64(v)

	case marker == markerBytes8 || marker == markerBytes16 || marker == markerBytes32:
		n, err := u.readLen(1 << (marker - markerBytes8))
		if err != nil {
			return err
		}
		span, err := u.readSpan(n)
		if err != nil {
			return err
		}
		u.typ, u.length, u.span = TypeBytes, n, span

	case marker == markerString8 || marker == markerString16 || marker == markerString32:
		n, err := u.readLen(1 << (marker - markerString8))
		if err != nil {
			return err
		}
		return u.str(n)

	case marker == markerList8 || marker == markerList16 || marker == markerList32:
		n, err := u.readLen(1 << (marker - markerList8))
		if err != nil {
			return err
		}
		u.typ, u.length = TypeList, n

	case marker == markerMap8 || marker == markerMap16 || marker == markerMap32:
		n, err := u.readLen(1 << (marker - markerMap8))
		if err != nil {
			return err
		}
		u.typ, u.length = TypeMap, n

	default:
		return fmt.Errorf("packstream: invalid marker 0x%02X at offset %d", marker, u.pos-1)
	}
	return nil
}

func (u *Unpacker) str(n int) error {
	span, err := u.readSpan(n)
	if err != nil {
		return err
	}
	u.typ, u.length, u.span = TypeString, n, span
	return nil
}

// Skip consumes one complete value, including nested containers.
func (u *Unpacker) Skip() error {
	if err := u.Next(); err != nil {
		return err
	}
	switch u.typ {
	case TypeList, TypeStruct:
		for range u.length {
			if err := u.Skip(); err != nil {
				return err
			}
		}
	case TypeMap:
		for range u.length {
			if err := u.Skip(); err != nil { // key
				return err
			}
			if err := u.Skip(); err != nil { // value
				return err
			}
		}
	}
	return nil
}

func (u *Unpacker) readByte() (byte, error) {
	if u.pos >= len(u.buf) {
		return 0, fmt.Errorf("packstream: unexpected end of input at offset %d", u.pos)
	}
	b := u.buf[u.pos]
	u.pos++
	return b, nil
}

func (u *Unpacker) readSpan(n int) ([]byte, error) {
	if u.pos+n > len(u.buf) {
		return nil, fmt.Errorf("packstream: %d-byte payload exceeds input at offset %d", n, u.pos)
	}
	span := u.buf[u.pos : u.pos+n]
	u.pos += n
	return span, nil
}

func (u *Unpacker) readUint(width int) (uint64, error) {
	span, err := u.readSpan(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	switch width {
	case 2:
		v = uint64(binary.BigEndian.Uint16(span))
	case 4:
		v = uint64(binary.BigEndian.Uint32(span))
	case 8:
		v = binary.BigEndian.Uint64(span)
	}
	return v, nil
}

func (u *Unpacker) readLen(width int) (int, error) {
	switch width {
	case 1:
		b, err := u.readByte()
		return int(b), err
	case 2:
		v, err := u.readUint(2)
		return int(v), err
	default:
		v, err := u.readUint(4)
		return int(v), err
	}
}
