package bolt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jackc/chunkreader/v2"
	"github.com/jackc/pgio"
)

// maxChunk is the largest payload a single chunk can carry.
const maxChunk = 65535

// appendChunked splits msg into length-prefixed chunks and appends them to
// buf, followed by the 0x0000 terminator.
func appendChunked(buf, msg []byte) []byte {
	for len(msg) > 0 {
		n := len(msg)
		if n > maxChunk {
			n = maxChunk
		}
		buf = pgio.AppendUint16(buf, uint16(n))
		buf = append(buf, msg[:n]...)
		msg = msg[n:]
	}
	return pgio.AppendUint16(buf, 0)
}

// dechunker reassembles messages from the chunked stream.
type dechunker struct {
	cr *chunkreader.ChunkReader
}

func newDechunker(r io.Reader) *dechunker {
	return &dechunker{cr: chunkreader.New(r)}
}

// readMessage reads chunks until the terminator and returns the message
// bytes in a fresh buffer, so decoded values may borrow from it after the
// reader moves on. A terminator with no preceding payload is a keep-alive
// and is skipped. A stream that ends mid-message is a framing error.
func (d *dechunker) readMessage() ([]byte, error) {
	var msg []byte
	for {
		hdr, err := d.cr.Next(2)
		if err != nil {
			if len(msg) > 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
				return nil, protocolErrf("connection closed mid-message after %d bytes", len(msg))
			}
			return nil, fmt.Errorf("bolt: read chunk header: %w", err)
		}
		n := int(binary.BigEndian.Uint16(hdr))
		if n == 0 {
			if msg == nil {
				continue
			}
			return msg, nil
		}
		payload, err := d.cr.Next(n)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, protocolErrf("connection closed inside a %d-byte chunk", n)
			}
			return nil, fmt.Errorf("bolt: read chunk payload: %w", err)
		}
		msg = append(msg, payload...)
	}
}
