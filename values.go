package graphbolt

import "github.com/mickamy/graphbolt/bolt"

// Aliases for the wire value types, so common usage needs only this package.
type (
	// Value is the sum of every type the wire protocol can carry.
	Value = bolt.Value
	// Dict is an insertion-ordered dictionary with unique string keys.
	Dict = bolt.Dict

	// Node is a node within the graph, with lazily decoded properties.
	Node = bolt.Node
	// Relationship is a relationship between two nodes.
	Relationship = bolt.Relationship
	// UnboundRelationship is a relationship as it appears inside a Path.
	UnboundRelationship = bolt.UnboundRelationship
	// Path is an alternating sequence of nodes and relationships.
	Path = bolt.Path
	// Segment is one hop of a Path.
	Segment = bolt.Segment

	// Date is a calendar date in days since the Unix epoch.
	Date = bolt.Date
	// Time is a wall-clock time with a UTC offset.
	Time = bolt.Time
	// LocalTime is a wall-clock time without zone information.
	LocalTime = bolt.LocalTime
	// DateTime is an instant with a fixed UTC offset.
	DateTime = bolt.DateTime
	// DateTimeZoneId is an instant tagged with an IANA zone id.
	DateTimeZoneId = bolt.DateTimeZoneId
	// LocalDateTime is a wall-clock date and time without zone information.
	LocalDateTime = bolt.LocalDateTime
	// Duration is a months/days/seconds/nanoseconds temporal amount.
	Duration = bolt.Duration
	// Point2D is a two-dimensional point in an SRID coordinate system.
	Point2D = bolt.Point2D
	// Point3D is a three-dimensional point in an SRID coordinate system.
	Point3D = bolt.Point3D
)
