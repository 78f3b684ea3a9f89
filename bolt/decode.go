package bolt

import (
	"fmt"
	"unicode/utf8"

	"github.com/mickamy/graphbolt/packstream"
)

// Structure tag bytes.
const (
	tagNode                 byte = 0x4E
	tagRelationship         byte = 0x52
	tagUnboundRelationship  byte = 0x72
	tagPath                 byte = 0x50
	tagDate                 byte = 0x44
	tagTime                 byte = 0x54
	tagLocalTime            byte = 0x74
	tagDateTime             byte = 0x49
	tagDateTimeZoneId       byte = 0x69
	tagLocalDateTime        byte = 0x64
	tagLegacyDateTime       byte = 0x46
	tagLegacyDateTimeZoneId byte = 0x66
	tagDuration             byte = 0x45
	tagPoint2D              byte = 0x58
	tagPoint3D              byte = 0x59
)

// DecodeValue consumes one value from u and materializes it, leaving graph
// structure properties deferred.
func DecodeValue(u *packstream.Unpacker) (Value, error) {
	if err := u.Next(); err != nil {
		return nil, err
	}
	return decodeCurrent(u)
}

// Decode materializes the single value encoded in d.
func Decode(d *packstream.Data) (Value, error) {
	return DecodeValue(d.Unpacker())
}

func decodeCurrent(u *packstream.Unpacker) (Value, error) {
	switch u.Type() {
	case packstream.TypeNull:
		return Null{}, nil
	case packstream.TypeBool:
		return Bool(u.Bool()), nil
	case packstream.TypeInt:
		return Int(u.Int()), nil
	case packstream.TypeFloat:
		return Float(u.Float()), nil
	case packstream.TypeBytes:
		return Bytes(u.ByteSlice()), nil
	case packstream.TypeString:
		return String(u.String()), nil
	case packstream.TypeList:
		n := u.Len()
		out := make(List, n)
		for i := range n {
			v, err := DecodeValue(u)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case packstream.TypeMap:
		return decodeDict(u, u.Len())
	case packstream.TypeStruct:
		return decodeStruct(u, u.StructTag(), u.Len())
	default:
		return nil, fmt.Errorf("bolt: unexpected token %s", u.Type())
	}
}

func decodeDict(u *packstream.Unpacker, n int) (*Dict, error) {
	d := NewDict(n)
	for range n {
		if err := u.Next(); err != nil {
			return nil, err
		}
		if u.Type() != packstream.TypeString {
			return nil, fmt.Errorf("bolt: dictionary key must be a string, got %s", u.Type())
		}
		if !utf8.Valid(u.StringBytes()) {
			return nil, fmt.Errorf("bolt: dictionary key is not valid UTF-8")
		}
		key := u.String()
		v, err := DecodeValue(u)
		if err != nil {
			return nil, err
		}
		if err := d.Add(key, v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func decodeDictData(d *packstream.Data) (*Dict, error) {
	u := d.Unpacker()
	if err := u.Next(); err != nil {
		return nil, err
	}
	if u.Type() != packstream.TypeMap {
		return nil, fmt.Errorf("bolt: expected property map, got %s", u.Type())
	}
	return decodeDict(u, u.Len())
}

func decodeStruct(u *packstream.Unpacker, tag byte, fields int) (Value, error) {
	switch tag {
	case tagNode:
		return decodeNode(u, fields)
	case tagRelationship:
		return decodeRelationship(u, fields)
	case tagUnboundRelationship:
		return decodeUnboundRelationship(u, fields)
	case tagPath:
		return decodePath(u, fields)

	case tagDate:
		f, err := structInts(u, tag, fields, 1)
		if err != nil {
			return nil, err
		}
		return Date{Days: f[0]}, nil
	case tagTime:
		f, err := structInts(u, tag, fields, 2)
		if err != nil {
			return nil, err
		}
		return Time{Nanos: f[0], OffsetSeconds: int32(f[1])}, nil
	case tagLocalTime:
		f, err := structInts(u, tag, fields, 1)
		if err != nil {
			return nil, err
		}
		return LocalTime{Nanos: f[0]}, nil
	case tagDateTime:
		f, err := structInts(u, tag, fields, 3)
		if err != nil {
			return nil, err
		}
		return DateTime{Seconds: f[0], Nanos: uint32(f[1]), OffsetSeconds: int32(f[2])}, nil
	case tagLocalDateTime:
		f, err := structInts(u, tag, fields, 2)
		if err != nil {
			return nil, err
		}
		return LocalDateTime{Seconds: f[0], Nanos: uint32(f[1])}, nil
	case tagLegacyDateTime:
		f, err := structInts(u, tag, fields, 3)
		if err != nil {
			return nil, err
		}
		return LegacyDateTime{Seconds: f[0], Nanos: uint32(f[1]), OffsetSeconds: int32(f[2])}, nil
	case tagDateTimeZoneId:
		if fields != 3 {
			return nil, structArityErr(tag, fields)
		}
		seconds, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		nanos, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		zone, err := decodeString(u)
		if err != nil {
			return nil, err
		}
		return DateTimeZoneId{Seconds: seconds, Nanos: uint32(nanos), ZoneID: zone}, nil
	case tagLegacyDateTimeZoneId:
		if fields != 3 {
			return nil, structArityErr(tag, fields)
		}
		seconds, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		nanos, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		zone, err := decodeString(u)
		if err != nil {
			return nil, err
		}
		return LegacyDateTimeZoneId{Seconds: seconds, Nanos: uint32(nanos), ZoneID: zone}, nil
	case tagDuration:
		f, err := structInts(u, tag, fields, 4)
		if err != nil {
			return nil, err
		}
		return Duration{Months: f[0], Days: f[1], Seconds: f[2], Nanos: int32(f[3])}, nil

	case tagPoint2D:
		if fields != 3 {
			return nil, structArityErr(tag, fields)
		}
		srid, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		x, err := decodeFloat(u)
		if err != nil {
			return nil, err
		}
		y, err := decodeFloat(u)
		if err != nil {
			return nil, err
		}
		return Point2D{SRID: int32(srid), X: x, Y: y}, nil
	case tagPoint3D:
		if fields != 4 {
			return nil, structArityErr(tag, fields)
		}
		srid, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		x, err := decodeFloat(u)
		if err != nil {
			return nil, err
		}
		y, err := decodeFloat(u)
		if err != nil {
			return nil, err
		}
		z, err := decodeFloat(u)
		if err != nil {
			return nil, err
		}
		return Point3D{SRID: int32(srid), X: x, Y: y, Z: z}, nil

	default:
		return nil, fmt.Errorf("bolt: unknown structure tag 0x%02X", tag)
	}
}

// decodeNode decodes the fields of a Node structure. Field count 4 carries
// the element id introduced in protocol version 5.
func decodeNode(u *packstream.Unpacker, fields int) (*Node, error) {
	if fields != 3 && fields != 4 {
		return nil, structArityErr(tagNode, fields)
	}
	id, err := decodeInt(u)
	if err != nil {
		return nil, err
	}
	labels, err := decodeStringList(u)
	if err != nil {
		return nil, err
	}
	props, err := deferValue(u)
	if err != nil {
		return nil, err
	}
	n := &Node{ID: id, Labels: labels, props: props}
	if fields == 4 {
		n.ElementID, err = decodeOptionalString(u)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func decodeRelationship(u *packstream.Unpacker, fields int) (*Relationship, error) {
	if fields != 5 && fields != 8 {
		return nil, structArityErr(tagRelationship, fields)
	}
	id, err := decodeInt(u)
	if err != nil {
		return nil, err
	}
	startID, err := decodeInt(u)
	if err != nil {
		return nil, err
	}
	endID, err := decodeInt(u)
	if err != nil {
		return nil, err
	}
	typ, err := decodeString(u)
	if err != nil {
		return nil, err
	}
	props, err := deferValue(u)
	if err != nil {
		return nil, err
	}
	r := &Relationship{ID: id, StartID: startID, EndID: endID, Type: typ, props: props}
	if fields == 8 {
		if r.ElementID, err = decodeOptionalString(u); err != nil {
			return nil, err
		}
		if r.StartElementID, err = decodeOptionalString(u); err != nil {
			return nil, err
		}
		if r.EndElementID, err = decodeOptionalString(u); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func decodeUnboundRelationship(u *packstream.Unpacker, fields int) (*UnboundRelationship, error) {
	if fields != 3 && fields != 4 {
		return nil, structArityErr(tagUnboundRelationship, fields)
	}
	id, err := decodeInt(u)
	if err != nil {
		return nil, err
	}
	typ, err := decodeString(u)
	if err != nil {
		return nil, err
	}
	props, err := deferValue(u)
	if err != nil {
		return nil, err
	}
	r := &UnboundRelationship{ID: id, Type: typ, props: props}
	if fields == 4 {
		if r.ElementID, err = decodeOptionalString(u); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func decodePath(u *packstream.Unpacker, fields int) (*Path, error) {
	if fields != 3 {
		return nil, structArityErr(tagPath, fields)
	}
	if err := u.Next(); err != nil {
		return nil, err
	}
	if u.Type() != packstream.TypeList {
		return nil, fmt.Errorf("bolt: path nodes must be a list, got %s", u.Type())
	}
	nodes := make([]*Node, u.Len())
	for i := range nodes {
		if err := u.Next(); err != nil {
			return nil, err
		}
		if u.Type() != packstream.TypeStruct || u.StructTag() != tagNode {
			return nil, fmt.Errorf("bolt: path nodes must be Node structures")
		}
		n, err := decodeNode(u, u.Len())
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	if err := u.Next(); err != nil {
		return nil, err
	}
	if u.Type() != packstream.TypeList {
		return nil, fmt.Errorf("bolt: path relationships must be a list, got %s", u.Type())
	}
	rels := make([]*UnboundRelationship, u.Len())
	for i := range rels {
		if err := u.Next(); err != nil {
			return nil, err
		}
		if u.Type() != packstream.TypeStruct || u.StructTag() != tagUnboundRelationship {
			return nil, fmt.Errorf("bolt: path relationships must be UnboundRelationship structures")
		}
		r, err := decodeUnboundRelationship(u, u.Len())
		if err != nil {
			return nil, err
		}
		rels[i] = r
	}

	indices, err := decodeIntList(u)
	if err != nil {
		return nil, err
	}
	return NewPath(nodes, rels, indices)
}

// deferValue captures the next value's raw bytes without decoding it.
func deferValue(u *packstream.Unpacker) (*packstream.Data, error) {
	mark := u.Pos()
	if err := u.Skip(); err != nil {
		return nil, err
	}
	return packstream.NewData(u.Raw(mark)), nil
}

func decodeInt(u *packstream.Unpacker) (int64, error) {
	if err := u.Next(); err != nil {
		return 0, err
	}
	if u.Type() != packstream.TypeInt {
		return 0, fmt.Errorf("bolt: expected integer, got %s", u.Type())
	}
	return u.Int(), nil
}

func decodeFloat(u *packstream.Unpacker) (float64, error) {
	if err := u.Next(); err != nil {
		return 0, err
	}
	if u.Type() != packstream.TypeFloat {
		return 0, fmt.Errorf("bolt: expected float, got %s", u.Type())
	}
	return u.Float(), nil
}

func decodeString(u *packstream.Unpacker) (string, error) {
	if err := u.Next(); err != nil {
		return "", err
	}
	if u.Type() != packstream.TypeString {
		return "", fmt.Errorf("bolt: expected string, got %s", u.Type())
	}
	return u.String(), nil
}

// decodeOptionalString accepts a string or null; some servers send null for
// element id fields they do not populate.
func decodeOptionalString(u *packstream.Unpacker) (string, error) {
	if err := u.Next(); err != nil {
		return "", err
	}
	switch u.Type() {
	case packstream.TypeNull:
		return "", nil
	case packstream.TypeString:
		return u.String(), nil
	default:
		return "", fmt.Errorf("bolt: expected string or null, got %s", u.Type())
	}
}

func decodeStringList(u *packstream.Unpacker) ([]string, error) {
	if err := u.Next(); err != nil {
		return nil, err
	}
	if u.Type() != packstream.TypeList {
		return nil, fmt.Errorf("bolt: expected list of strings, got %s", u.Type())
	}
	out := make([]string, u.Len())
	for i := range out {
		s, err := decodeString(u)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func decodeIntList(u *packstream.Unpacker) ([]int64, error) {
	if err := u.Next(); err != nil {
		return nil, err
	}
	if u.Type() != packstream.TypeList {
		return nil, fmt.Errorf("bolt: expected list of integers, got %s", u.Type())
	}
	out := make([]int64, u.Len())
	for i := range out {
		v, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func structArityErr(tag byte, fields int) error {
	return fmt.Errorf("bolt: structure 0x%02X has invalid field count %d", tag, fields)
}

func structInts(u *packstream.Unpacker, tag byte, fields, want int) ([]int64, error) {
	if fields != want {
		return nil, structArityErr(tag, fields)
	}
	out := make([]int64, want)
	for i := range out {
		v, err := decodeInt(u)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
