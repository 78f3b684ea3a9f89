package bolt

import "fmt"

// Path is an alternating sequence of nodes and relationships.
//
// The wire form carries the distinct nodes, the distinct relationships
// (unbound), and a flat index list of pairs (rel, node). A positive rel
// index selects rels[rel-1] traversed forwards; a negative rel index selects
// rels[-rel-1] traversed in reverse. The node index selects the next node.
// Traversal starts at nodes[0].
type Path struct {
	nodes   []*Node
	rels    []*UnboundRelationship
	indices []int64
}

func (*Path) isValue() {}

// NewPath builds a path from its wire components, validating the invariants:
// nodes must be non-empty, indices must have even length, and every index
// must be in range with no zero rel index.
func NewPath(nodes []*Node, rels []*UnboundRelationship, indices []int64) (*Path, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("bolt: path has no nodes")
	}
	if len(indices)%2 != 0 {
		return nil, fmt.Errorf("bolt: path indices have odd length %d", len(indices))
	}
	for i := 0; i < len(indices); i += 2 {
		rel, node := indices[i], indices[i+1]
		if rel == 0 {
			return nil, fmt.Errorf("bolt: path relationship index is zero")
		}
		ri := rel
		if ri < 0 {
			ri = -ri
		}
		if int(ri) > len(rels) {
			return nil, fmt.Errorf("bolt: path relationship index %d out of range", rel)
		}
		if node < 0 || int(node) >= len(nodes) {
			return nil, fmt.Errorf("bolt: path node index %d out of range", node)
		}
	}
	return &Path{nodes: nodes, rels: rels, indices: indices}, nil
}

// Start returns the first node of the path.
func (p *Path) Start() *Node { return p.nodes[0] }

// End returns the last node in traversal order.
func (p *Path) End() *Node {
	if len(p.indices) == 0 {
		return p.nodes[0]
	}
	return p.nodes[p.indices[len(p.indices)-1]]
}

// Len returns the number of segments, which equals the number of
// relationships traversed.
func (p *Path) Len() int { return len(p.indices) / 2 }

// Segment is one hop of a path: a relationship together with the start and
// end nodes of its traversal. For a relationship traversed in reverse, Start
// and End are swapped relative to the stored direction.
type Segment struct {
	Start *Node
	Rel   *Relationship
	End   *Node
}

// Segments returns the hops in traversal order.
func (p *Path) Segments() []Segment {
	segs := make([]Segment, 0, p.Len())
	prev := p.nodes[0]
	for i := 0; i < len(p.indices); i += 2 {
		rel := p.indices[i]
		next := p.nodes[p.indices[i+1]]

		// The bound relationship keeps its stored direction: on a reverse
		// hop the traversal runs end-to-start, so the endpoints come from
		// (next, prev) rather than (prev, next).
		var bound *Relationship
		if rel > 0 {
			bound = p.rels[rel-1].bind(prev.ID, next.ID, prev.ElementID, next.ElementID)
		} else {
			bound = p.rels[-rel-1].bind(next.ID, prev.ID, next.ElementID, prev.ElementID)
		}
		segs = append(segs, Segment{
			Start: prev,
			Rel:   bound,
			End:   next,
		})
		prev = next
	}
	return segs
}

// Nodes returns the nodes in traversal order, starting with Start.
func (p *Path) Nodes() []*Node {
	out := make([]*Node, 0, p.Len()+1)
	out = append(out, p.nodes[0])
	for i := 1; i < len(p.indices); i += 2 {
		out = append(out, p.nodes[p.indices[i]])
	}
	return out
}

// Relationships returns the traversed relationships in order. Each keeps its
// stored direction, so on a reverse hop its start is the later node.
func (p *Path) Relationships() []*Relationship {
	segs := p.Segments()
	out := make([]*Relationship, len(segs))
	for i, s := range segs {
		out[i] = s.Rel
	}
	return out
}

func (p *Path) cloneOwned() (*Path, error) {
	nodes := make([]*Node, len(p.nodes))
	for i, n := range p.nodes {
		c, err := n.cloneOwned()
		if err != nil {
			return nil, err
		}
		nodes[i] = c
	}
	rels := make([]*UnboundRelationship, len(p.rels))
	for i, r := range p.rels {
		c, err := r.cloneOwned()
		if err != nil {
			return nil, err
		}
		rels[i] = c
	}
	return &Path{nodes: nodes, rels: rels, indices: append([]int64(nil), p.indices...)}, nil
}
