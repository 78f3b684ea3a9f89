package bolt

import (
	"github.com/mickamy/graphbolt/packstream"
)

// Response is a server-to-client message.
type Response interface {
	isResponse()
}

// Success acknowledges a request, carrying metadata.
type Success struct {
	Meta *Dict
}

// Failure reports a server-side error for the request it answers.
type Failure struct {
	Code    string
	Message string
	Meta    *Dict
}

// Ignored is sent for any request other than RESET while the server is in a
// failed state.
type Ignored struct{}

// Record carries one row of an open result stream. The field list stays raw
// until Values is called.
type Record struct {
	data *packstream.Data
}

func (*Success) isResponse() {}
func (*Failure) isResponse() {}
func (Ignored) isResponse()  {}
func (*Record) isResponse()  {}

// Values decodes the record's field list. Each call walks the raw payload
// from the start.
func (r *Record) Values() (List, error) {
	v, err := Decode(r.data)
	if err != nil {
		return nil, err
	}
	l, ok := v.(List)
	if !ok {
		return nil, protocolErrf("RECORD payload is not a list")
	}
	return l, nil
}

// Raw returns the undecoded field list payload.
func (r *Record) Raw() *packstream.Data { return r.data }

// ParseResponse splits the structure header off a message buffer and
// materializes the response, leaving RECORD payloads raw.
func ParseResponse(buf []byte) (Response, error) {
	u := packstream.NewUnpacker(buf)
	if err := u.Next(); err != nil {
		return nil, &ProtocolError{Detail: err.Error()}
	}
	if u.Type() != packstream.TypeStruct {
		return nil, protocolErrf("message is not a structure, got %s", u.Type())
	}
	tag, fields := u.StructTag(), u.Len()

	switch tag {
	case msgSuccess:
		if fields != 1 {
			return nil, protocolErrf("SUCCESS has invalid field count %d", fields)
		}
		meta, err := decodeMetadata(u)
		if err != nil {
			return nil, err
		}
		return &Success{Meta: meta}, nil

	case msgFailure:
		if fields != 1 {
			return nil, protocolErrf("FAILURE has invalid field count %d", fields)
		}
		meta, err := decodeMetadata(u)
		if err != nil {
			return nil, err
		}
		code, _ := meta.GetString("code")
		message, _ := meta.GetString("message")
		return &Failure{Code: code, Message: message, Meta: meta}, nil

	case msgIgnored:
		return Ignored{}, nil

	case msgRecord:
		if fields != 1 {
			return nil, protocolErrf("RECORD has invalid field count %d", fields)
		}
		mark := u.Pos()
		if err := u.Skip(); err != nil {
			return nil, &ProtocolError{Detail: err.Error()}
		}
		return &Record{data: packstream.NewData(u.Raw(mark))}, nil

	default:
		return nil, protocolErrf("unexpected message tag 0x%02X", tag)
	}
}

func decodeMetadata(u *packstream.Unpacker) (*Dict, error) {
	v, err := DecodeValue(u)
	if err != nil {
		return nil, &ProtocolError{Detail: err.Error()}
	}
	meta, ok := v.(*Dict)
	if !ok {
		return nil, protocolErrf("message metadata is not a dictionary")
	}
	return meta, nil
}

// Metadata accessors used by the streaming layer.

// Fields returns the column names announced by a RUN success.
func (s *Success) Fields() []string {
	v, ok := s.Meta.Get("fields")
	if !ok {
		return nil
	}
	l, ok := v.(List)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, e := range l {
		if str, ok := e.(String); ok {
			out = append(out, string(str))
		}
	}
	return out
}

// QID returns the server-assigned query id, if any.
func (s *Success) QID() (int64, bool) {
	return s.Meta.GetInt("qid")
}

// TFirst returns the milliseconds until the first record was available.
func (s *Success) TFirst() (int64, bool) {
	return s.Meta.GetInt("t_first")
}

// HasMore reports whether the stream has more records after this SUCCESS.
// An absent key means the stream is complete.
func (s *Success) HasMore() bool {
	more, ok := s.Meta.GetBool("has_more")
	return ok && more
}

// Bookmark returns the bookmark minted by a COMMIT or stream summary.
func (s *Success) Bookmark() (string, bool) {
	return s.Meta.GetString("bookmark")
}
