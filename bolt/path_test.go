package bolt_test

import (
	"testing"

	"github.com/mickamy/graphbolt/bolt"
)

// testPath builds (n1)-[r1]->(n2)<-[r2]-(n3): r2 is traversed in reverse,
// encoded as a negative relationship index.
func testPath(t *testing.T) *bolt.Path {
	t.Helper()
	nodes := []*bolt.Node{
		bolt.NewNode(1, []string{"A"}, emptyProps(t), ""),
		bolt.NewNode(2, []string{"B"}, emptyProps(t), ""),
		bolt.NewNode(3, []string{"C"}, emptyProps(t), ""),
	}
	rels := []*bolt.UnboundRelationship{
		bolt.NewUnboundRelationship(10, "R1", emptyProps(t)),
		bolt.NewUnboundRelationship(20, "R2", emptyProps(t)),
	}
	p, err := bolt.NewPath(nodes, rels, []int64{1, 1, -2, 2})
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	return p
}

func TestPathTraversal(t *testing.T) {
	t.Parallel()

	p := testPath(t)
	if p.Len() != 2 {
		t.Fatalf("len = %d, want 2", p.Len())
	}
	if p.Start().ID != 1 || p.End().ID != 3 {
		t.Errorf("start/end = %d/%d, want 1/3", p.Start().ID, p.End().ID)
	}

	nodes := p.Nodes()
	wantIDs := []int64{1, 2, 3}
	for i, n := range nodes {
		if n.ID != wantIDs[i] {
			t.Errorf("nodes[%d].ID = %d, want %d", i, n.ID, wantIDs[i])
		}
	}

	segs := p.Segments()
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	// First hop forwards: n1 -[R1]-> n2.
	if segs[0].Start.ID != 1 || segs[0].End.ID != 2 || segs[0].Rel.ID != 10 {
		t.Errorf("segment 0 = %d-[%d]->%d", segs[0].Start.ID, segs[0].Rel.ID, segs[0].End.ID)
	}
	if segs[0].Rel.StartID != 1 || segs[0].Rel.EndID != 2 {
		t.Errorf("segment 0 rel endpoints = %d->%d", segs[0].Rel.StartID, segs[0].Rel.EndID)
	}
	// Second hop in reverse: the traversal runs n2 -> n3 against R2's
	// stored direction, so the bound relationship keeps n3 -> n2.
	if segs[1].Start.ID != 2 || segs[1].End.ID != 3 || segs[1].Rel.ID != 20 {
		t.Errorf("segment 1 = %d-[%d]->%d", segs[1].Start.ID, segs[1].Rel.ID, segs[1].End.ID)
	}
	if segs[1].Rel.StartID != 3 || segs[1].Rel.EndID != 2 {
		t.Errorf("segment 1 rel endpoints = %d->%d, want 3->2", segs[1].Rel.StartID, segs[1].Rel.EndID)
	}

	rels := p.Relationships()
	if len(rels) != 2 || rels[0].Type != "R1" || rels[1].Type != "R2" {
		t.Errorf("relationships = %v", rels)
	}
}

func TestPathInvariants(t *testing.T) {
	t.Parallel()

	n := []*bolt.Node{bolt.NewNode(1, nil, emptyProps(t), "")}
	r := []*bolt.UnboundRelationship{bolt.NewUnboundRelationship(10, "R", emptyProps(t))}

	if _, err := bolt.NewPath(nil, nil, nil); err == nil {
		t.Error("expected error for empty node list")
	}
	if _, err := bolt.NewPath(n, r, []int64{1}); err == nil {
		t.Error("expected error for odd index list")
	}
	if _, err := bolt.NewPath(n, r, []int64{0, 0}); err == nil {
		t.Error("expected error for zero relationship index")
	}
	if _, err := bolt.NewPath(n, r, []int64{2, 0}); err == nil {
		t.Error("expected error for out-of-range relationship index")
	}
	if _, err := bolt.NewPath(n, r, []int64{1, 5}); err == nil {
		t.Error("expected error for out-of-range node index")
	}
	if _, err := bolt.NewPath(n, nil, nil); err != nil {
		t.Errorf("single-node path: %v", err)
	}
}
