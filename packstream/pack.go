package packstream

import (
	"fmt"
	"math"

	"github.com/jackc/pgio"
)

// ErrTooLong is wrapped by encode errors for containers whose length exceeds
// the widest marker form (2^32 - 1).
var ErrTooLong = fmt.Errorf("packstream: container too long")

// Packer appends PackStream-encoded values to a byte buffer.
//
// The zero value is ready for use after Begin. A Packer always chooses the
// smallest marker that fits; decoders accept any valid marker width.
type Packer struct {
	buf []byte
	err error
}

// Begin starts packing into buf (which may be nil or carry a prefix that is
// preserved, such as a reserved chunk header).
func (p *Packer) Begin(buf []byte) {
	p.buf = buf
	p.err = nil
}

// End returns the packed buffer and the first error encountered, if any.
func (p *Packer) End() ([]byte, error) {
	return p.buf, p.err
}

func (p *Packer) setErr(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Raw appends bytes that are already PackStream-encoded.
func (p *Packer) Raw(b []byte) {
	p.buf = append(p.buf, b...)
}

// Null appends the null marker.
func (p *Packer) Null() {
	p.buf = append(p.buf, markerNull)
}

// Bool appends a boolean.
func (p *Packer) Bool(b bool) {
	if b {
		p.buf = append(p.buf, markerTrue)
	} else {
		p.buf = append(p.buf, markerFalse)
	}
}

// Int appends a signed integer using the smallest form that fits.
func (p *Packer) Int(i int64) {
	switch {
	case i >= tinyIntMin && i <= tinyIntMax:
		p.buf = append(p.buf, byte(i))
	case i >= math.MinInt8 && i <= math.MaxInt8:
		p.buf = append(p.buf, markerInt8, byte(i))
	case i >= math.MinInt16 && i <= math.MaxInt16:
		p.buf = append(p.buf, markerInt16)
		p.buf = pgio.AppendInt16(p.buf, int16(i))
	case i >= math.MinInt32 && i <= math.MaxInt32:
		p.buf = append(p.buf, markerInt32)
		p.buf = pgio.AppendInt32(p.buf, int32(i))
	default:
		p.buf = append(p.buf, markerInt64)
		p.buf = pgio.AppendInt64(p.buf, i)
	}
}

// Float appends a 64-bit float. NaN and infinities keep their bit patterns.
func (p *Packer) Float(f float64) {
	p.buf = append(p.buf, markerFloat)
	p.buf = pgio.AppendUint64(p.buf, math.Float64bits(f))
}

// String appends a UTF-8 string.
func (p *Packer) String(s string) {
	n := len(s)
	switch {
	case n < 16:
		p.buf = append(p.buf, markerTinyString|byte(n))
	case n <= math.MaxUint8:
		p.buf = append(p.buf, markerString8, byte(n))
	case n <= math.MaxUint16:
		p.buf = append(p.buf, markerString16)
		p.buf = pgio.AppendUint16(p.buf, uint16(n))
	case n <= maxContainer:
		p.buf = append(p.buf, markerString32)
		p.buf = pgio.AppendUint32(p.buf, uint32(n))
	default:
		p.setErr(fmt.Errorf("%w: string of %d bytes", ErrTooLong, n))
		return
	}
	p.buf = append(p.buf, s...)
}

// Bytes appends a byte string. There is no tiny form for bytes.
func (p *Packer) Bytes(b []byte) {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		p.buf = append(p.buf, markerBytes8, byte(n))
	case n <= math.MaxUint16:
		p.buf = append(p.buf, markerBytes16)
		p.buf = pgio.AppendUint16(p.buf, uint16(n))
	case n <= maxContainer:
		p.buf = append(p.buf, markerBytes32)
		p.buf = pgio.AppendUint32(p.buf, uint32(n))
	default:
		p.setErr(fmt.Errorf("%w: byte string of %d bytes", ErrTooLong, n))
		return
	}
	p.buf = append(p.buf, b...)
}

// ListHeader appends a list header for n values. The caller must follow with
// exactly n packed values.
func (p *Packer) ListHeader(n int) {
	p.containerHeader(n, markerTinyList, markerList8, markerList16, markerList32, "list")
}

// MapHeader appends a map header for n key-value pairs. The caller must
// follow with n alternating string keys and values.
func (p *Packer) MapHeader(n int) {
	p.containerHeader(n, markerTinyMap, markerMap8, markerMap16, markerMap32, "map")
}

func (p *Packer) containerHeader(n int, tiny, m8, m16, m32 byte, what string) {
	switch {
	case n < 0:
		p.setErr(fmt.Errorf("packstream: negative %s length %d", what, n))
	case n < 16:
		p.buf = append(p.buf, tiny|byte(n))
	case n <= math.MaxUint8:
		p.buf = append(p.buf, m8, byte(n))
	case n <= math.MaxUint16:
		p.buf = append(p.buf, m16)
		p.buf = pgio.AppendUint16(p.buf, uint16(n))
	case n <= maxContainer:
		p.buf = append(p.buf, m32)
		p.buf = pgio.AppendUint32(p.buf, uint32(n))
	default:
		p.setErr(fmt.Errorf("%w: %s of %d entries", ErrTooLong, what, n))
	}
}

// StructHeader appends a structure header with the given tag byte. Structures
// carry at most 15 fields.
func (p *Packer) StructHeader(tag byte, fields int) {
	if fields < 0 || fields > 15 {
		p.setErr(fmt.Errorf("packstream: struct field count %d out of range", fields))
		return
	}
	p.buf = append(p.buf, markerTinyStruct|byte(fields), tag)
}
