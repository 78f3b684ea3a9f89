package graphbolt

import "github.com/mickamy/graphbolt/bolt"

// Summary is the metadata the server sends when a result stream ends:
// counters, plan info, bookmarks.
type Summary struct {
	// Meta is the full metadata dictionary of the terminal SUCCESS.
	Meta *bolt.Dict
}

func newSummary(s *bolt.Success) *Summary {
	return &Summary{Meta: s.Meta}
}

// Bookmark returns the bookmark minted at stream end, if any.
func (s *Summary) Bookmark() (string, bool) {
	return s.Meta.GetString("bookmark")
}

// QueryType returns the reported query type ("r", "w", "rw" or "s").
func (s *Summary) QueryType() (string, bool) {
	return s.Meta.GetString("type")
}

// TLast returns the milliseconds between the last PULL and the last record.
func (s *Summary) TLast() (int64, bool) {
	return s.Meta.GetInt("t_last")
}

// Counters returns the update counters ("nodes-created" and friends).
func (s *Summary) Counters() map[string]int64 {
	v, ok := s.Meta.Get("stats")
	if !ok {
		return nil
	}
	d, ok := v.(*bolt.Dict)
	if !ok {
		return nil
	}
	out := make(map[string]int64, d.Len())
	for _, e := range d.Entries() {
		if i, ok := e.Value.(bolt.Int); ok {
			out[e.Key] = int64(i)
		}
	}
	return out
}
