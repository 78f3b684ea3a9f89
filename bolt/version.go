package bolt

import "fmt"

// Version is a negotiated protocol version.
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is at or above major.minor.
func (v Version) AtLeast(major, minor uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// proposal is a version with a backwards range: it offers every minor from
// Minor-Range up to Minor.
type proposal struct {
	Version
	Range uint8
}

// proposals are sent during the handshake in preference order.
var proposals = [4]proposal{
	{Version{Major: 5, Minor: 4}, 4},
	{Version{Major: 4, Minor: 4}, 1},
	{Version{Major: 4, Minor: 2}, 0},
	{Version{Major: 3, Minor: 0}, 0},
}

// encode returns the 4-byte big-endian wire form of the proposal.
func (p proposal) encode() [4]byte {
	return [4]byte{0, p.Range, p.Minor, p.Major}
}

// acceptable reports whether the server's chosen version falls inside any
// proposed range.
func acceptable(v Version) bool {
	for _, p := range proposals {
		if v.Major != p.Major {
			continue
		}
		if v.Minor <= p.Minor && v.Minor >= p.Minor-p.Range {
			return true
		}
	}
	return false
}
