package packstream

// Data holds a raw PackStream-encoded payload, for values whose decoding is
// deferred until a consumer asks for it.
//
// The bytes are typically borrowed from the wire buffer of the message they
// arrived in; the buffer stays alive for as long as the Data does. Walking
// the payload more than once is allowed: every decode takes a fresh cursor
// from Unpacker, positioned at the start, so decoding is idempotent.
type Data struct {
	buf []byte
}

// NewData wraps raw encoded bytes.
func NewData(buf []byte) *Data {
	return &Data{buf: buf}
}

// Bytes returns the underlying encoded bytes, borrowed.
func (d *Data) Bytes() []byte { return d.buf }

// Len returns the encoded length in bytes.
func (d *Data) Len() int { return len(d.buf) }

// Clone returns a Data backed by an independent copy of the bytes, detaching
// it from the wire buffer.
func (d *Data) Clone() *Data {
	buf := make([]byte, len(d.buf))
	copy(buf, d.buf)
	return &Data{buf: buf}
}

// Unpacker returns a fresh cursor over the payload, positioned at the start.
func (d *Data) Unpacker() *Unpacker {
	return NewUnpacker(d.buf)
}
