package bolt

import (
	"github.com/mickamy/graphbolt/packstream"
)

// Node is a node within the graph.
//
// Properties arrive as raw encoded bytes and stay that way until a consumer
// asks for them; Keys, Get, Decode and Properties each walk the raw payload
// from the start, so they can be called any number of times and in any order.
type Node struct {
	// ID is the server-assigned numeric id, stable only within a session.
	ID int64
	// Labels of the node.
	Labels []string
	// ElementID is the opaque string id introduced in protocol version 5.
	// Empty when the server predates element ids.
	ElementID string

	props *packstream.Data
}

func (*Node) isValue() {}

// NewNode builds a node with already-encoded properties. Mostly useful in
// tests; decoded nodes come out of the codec.
func NewNode(id int64, labels []string, props *packstream.Data, elementID string) *Node {
	return &Node{ID: id, Labels: labels, ElementID: elementID, props: props}
}

// Keys returns the property keys in wire order.
func (n *Node) Keys() ([]string, error) {
	return packstream.Keys(n.props)
}

// Get decodes the property named key into dst. It reports whether the key
// was present; an absent key is not an error.
func (n *Node) Get(key string, dst any) (bool, error) {
	return packstream.Single(n.props, key, dst)
}

// Decode maps the properties onto dst, a struct pointer or map pointer.
func (n *Node) Decode(dst any) error {
	return packstream.Unmarshal(n.props, dst)
}

// Properties materializes the full property dictionary.
func (n *Node) Properties() (*Dict, error) {
	return decodeDictData(n.props)
}

func (n *Node) cloneOwned() (*Node, error) {
	c := *n
	c.Labels = append([]string(nil), n.Labels...)
	c.props = n.props.Clone()
	return &c, nil
}

// Relationship is a relationship between two nodes.
type Relationship struct {
	ID      int64
	StartID int64
	EndID   int64
	// Type is the relationship type name.
	Type string
	// ElementID, StartElementID and EndElementID are empty when the server
	// predates element ids.
	ElementID      string
	StartElementID string
	EndElementID   string

	props *packstream.Data
}

func (*Relationship) isValue() {}

// NewRelationship builds a relationship with already-encoded properties.
func NewRelationship(id, startID, endID int64, typ string, props *packstream.Data) *Relationship {
	return &Relationship{ID: id, StartID: startID, EndID: endID, Type: typ, props: props}
}

// Keys returns the property keys in wire order.
func (r *Relationship) Keys() ([]string, error) {
	return packstream.Keys(r.props)
}

// Get decodes the property named key into dst, reporting presence.
func (r *Relationship) Get(key string, dst any) (bool, error) {
	return packstream.Single(r.props, key, dst)
}

// Decode maps the properties onto dst.
func (r *Relationship) Decode(dst any) error {
	return packstream.Unmarshal(r.props, dst)
}

// Properties materializes the full property dictionary.
func (r *Relationship) Properties() (*Dict, error) {
	return decodeDictData(r.props)
}

func (r *Relationship) cloneOwned() (*Relationship, error) {
	c := *r
	c.props = r.props.Clone()
	return &c, nil
}

// UnboundRelationship is a relationship without endpoint information, as it
// appears inside a Path.
type UnboundRelationship struct {
	ID        int64
	Type      string
	ElementID string

	props *packstream.Data
}

func (*UnboundRelationship) isValue() {}

// NewUnboundRelationship builds an unbound relationship with already-encoded
// properties.
func NewUnboundRelationship(id int64, typ string, props *packstream.Data) *UnboundRelationship {
	return &UnboundRelationship{ID: id, Type: typ, props: props}
}

// Keys returns the property keys in wire order.
func (r *UnboundRelationship) Keys() ([]string, error) {
	return packstream.Keys(r.props)
}

// Get decodes the property named key into dst, reporting presence.
func (r *UnboundRelationship) Get(key string, dst any) (bool, error) {
	return packstream.Single(r.props, key, dst)
}

// Decode maps the properties onto dst.
func (r *UnboundRelationship) Decode(dst any) error {
	return packstream.Unmarshal(r.props, dst)
}

// Properties materializes the full property dictionary.
func (r *UnboundRelationship) Properties() (*Dict, error) {
	return decodeDictData(r.props)
}

// bind attaches endpoints to produce a full Relationship, used when
// traversing paths. Callers pass the endpoints in the relationship's stored
// direction, regardless of which way the path traverses it.
func (r *UnboundRelationship) bind(startID, endID int64, startElementID, endElementID string) *Relationship {
	return &Relationship{
		ID:             r.ID,
		StartID:        startID,
		EndID:          endID,
		Type:           r.Type,
		ElementID:      r.ElementID,
		StartElementID: startElementID,
		EndElementID:   endElementID,
		props:          r.props,
	}
}

func (r *UnboundRelationship) cloneOwned() (*UnboundRelationship, error) {
	c := *r
	c.props = r.props.Clone()
	return &c, nil
}
