package bolt

import (
	"fmt"

	"github.com/mickamy/graphbolt/packstream"
)

// EncodeValue appends the PackStream encoding of v to p.
func EncodeValue(p *packstream.Packer, v Value) error {
	switch v := v.(type) {
	case nil, Null:
		p.Null()
	case Bool:
		p.Bool(bool(v))
	case Int:
		p.Int(int64(v))
	case Float:
		p.Float(float64(v))
	case Bytes:
		p.Bytes(v)
	case String:
		p.String(string(v))
	case List:
		p.ListHeader(len(v))
		for _, e := range v {
			if err := EncodeValue(p, e); err != nil {
				return err
			}
		}
	case *Dict:
		p.MapHeader(v.Len())
		for _, e := range v.Entries() {
			p.String(e.Key)
			if err := EncodeValue(p, e.Value); err != nil {
				return err
			}
		}

	case *Node:
		fields := 3
		if v.ElementID != "" {
			fields = 4
		}
		p.StructHeader(tagNode, fields)
		p.Int(v.ID)
		p.ListHeader(len(v.Labels))
		for _, l := range v.Labels {
			p.String(l)
		}
		appendProps(p, v.props)
		if fields == 4 {
			p.String(v.ElementID)
		}
	case *Relationship:
		fields := 5
		if v.ElementID != "" {
			fields = 8
		}
		p.StructHeader(tagRelationship, fields)
		p.Int(v.ID)
		p.Int(v.StartID)
		p.Int(v.EndID)
		p.String(v.Type)
		appendProps(p, v.props)
		if fields == 8 {
			p.String(v.ElementID)
			p.String(v.StartElementID)
			p.String(v.EndElementID)
		}
	case *UnboundRelationship:
		fields := 3
		if v.ElementID != "" {
			fields = 4
		}
		p.StructHeader(tagUnboundRelationship, fields)
		p.Int(v.ID)
		p.String(v.Type)
		appendProps(p, v.props)
		if fields == 4 {
			p.String(v.ElementID)
		}
	case *Path:
		p.StructHeader(tagPath, 3)
		p.ListHeader(len(v.nodes))
		for _, n := range v.nodes {
			if err := EncodeValue(p, n); err != nil {
				return err
			}
		}
		p.ListHeader(len(v.rels))
		for _, r := range v.rels {
			if err := EncodeValue(p, r); err != nil {
				return err
			}
		}
		p.ListHeader(len(v.indices))
		for _, i := range v.indices {
			p.Int(i)
		}

	case Date:
		p.StructHeader(tagDate, 1)
		p.Int(v.Days)
	case Time:
		p.StructHeader(tagTime, 2)
		p.Int(v.Nanos)
		p.Int(int64(v.OffsetSeconds))
	case LocalTime:
		p.StructHeader(tagLocalTime, 1)
		p.Int(v.Nanos)
	case DateTime:
		p.StructHeader(tagDateTime, 3)
		p.Int(v.Seconds)
		p.Int(int64(v.Nanos))
		p.Int(int64(v.OffsetSeconds))
	case DateTimeZoneId:
		p.StructHeader(tagDateTimeZoneId, 3)
		p.Int(v.Seconds)
		p.Int(int64(v.Nanos))
		p.String(v.ZoneID)
	case LocalDateTime:
		p.StructHeader(tagLocalDateTime, 2)
		p.Int(v.Seconds)
		p.Int(int64(v.Nanos))
	case LegacyDateTime:
		p.StructHeader(tagLegacyDateTime, 3)
		p.Int(v.Seconds)
		p.Int(int64(v.Nanos))
		p.Int(int64(v.OffsetSeconds))
	case LegacyDateTimeZoneId:
		p.StructHeader(tagLegacyDateTimeZoneId, 3)
		p.Int(v.Seconds)
		p.Int(int64(v.Nanos))
		p.String(v.ZoneID)
	case Duration:
		p.StructHeader(tagDuration, 4)
		p.Int(v.Months)
		p.Int(v.Days)
		p.Int(v.Seconds)
		p.Int(int64(v.Nanos))
	case Point2D:
		p.StructHeader(tagPoint2D, 3)
		p.Int(int64(v.SRID))
		p.Float(v.X)
		p.Float(v.Y)
	case Point3D:
		p.StructHeader(tagPoint3D, 4)
		p.Int(int64(v.SRID))
		p.Float(v.X)
		p.Float(v.Y)
		p.Float(v.Z)

	default:
		return fmt.Errorf("bolt: cannot encode %T", v)
	}
	return nil
}

// appendProps appends an already-encoded property payload. Hand-constructed
// graph values may carry nil properties; those encode as an empty map.
func appendProps(p *packstream.Packer, props *packstream.Data) {
	if props == nil {
		p.MapHeader(0)
		return
	}
	p.Raw(props.Bytes())
}

// Encode packs a single value into a fresh buffer.
func Encode(v Value) ([]byte, error) {
	var p packstream.Packer
	p.Begin(nil)
	if err := EncodeValue(&p, v); err != nil {
		return nil, err
	}
	return p.End()
}
