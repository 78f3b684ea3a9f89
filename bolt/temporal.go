package bolt

import (
	"time"
)

// Date is a calendar date, counted in days since the Unix epoch.
type Date struct {
	Days int64
}

func (Date) isValue() {}

// AsTime returns midnight UTC of the date.
func (d Date) AsTime() time.Time {
	return time.Unix(d.Days*86400, 0).UTC()
}

// DateOf converts the calendar date of t (in t's location).
func DateOf(t time.Time) Date {
	y, m, day := t.Date()
	return Date{Days: time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Unix() / 86400}
}

// Time is a wall-clock time with a UTC offset.
type Time struct {
	// Nanos since midnight.
	Nanos int64
	// OffsetSeconds east of UTC.
	OffsetSeconds int32
}

func (Time) isValue() {}

// AsTime places the clock time on 1970-01-01 in a fixed zone at the offset.
func (t Time) AsTime() time.Time {
	return time.Date(1970, 1, 1, 0, 0, 0, 0, time.FixedZone("", int(t.OffsetSeconds))).
		Add(time.Duration(t.Nanos))
}

// LocalTime is a wall-clock time without zone information.
type LocalTime struct {
	// Nanos since midnight.
	Nanos int64
}

func (LocalTime) isValue() {}

// AsTime places the clock time on 1970-01-01 UTC.
func (t LocalTime) AsTime() time.Time {
	return time.Unix(0, t.Nanos).UTC()
}

// DateTime is an instant with a fixed UTC offset.
//
// On the wire the seconds field is adjusted by the offset: the UTC instant
// is Seconds + OffsetSeconds since the epoch.
type DateTime struct {
	Seconds       int64
	Nanos         uint32
	OffsetSeconds int32
}

func (DateTime) isValue() {}

// AsTime returns the instant, located at the fixed offset.
func (dt DateTime) AsTime() time.Time {
	utc := dt.Seconds + int64(dt.OffsetSeconds)
	return time.Unix(utc, int64(dt.Nanos)).In(time.FixedZone("", int(dt.OffsetSeconds)))
}

// DateTimeOf converts t, keeping its current UTC offset.
func DateTimeOf(t time.Time) DateTime {
	_, offset := t.Zone()
	return DateTime{
		Seconds:       t.Unix() - int64(offset),
		Nanos:         uint32(t.Nanosecond()),
		OffsetSeconds: int32(offset),
	}
}

// DateTimeZoneId is an instant tagged with an IANA zone id. Seconds count
// from the epoch in UTC.
type DateTimeZoneId struct {
	Seconds int64
	Nanos   uint32
	ZoneID  string
}

func (DateTimeZoneId) isValue() {}

// AsTime returns the instant located in the named zone. Loading an unknown
// zone id fails.
func (dt DateTimeZoneId) AsTime() (time.Time, error) {
	loc, err := time.LoadLocation(dt.ZoneID)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(dt.Seconds, int64(dt.Nanos)).In(loc), nil
}

// LocalDateTime is a wall-clock date and time without zone information.
type LocalDateTime struct {
	Seconds int64
	Nanos   uint32
}

func (LocalDateTime) isValue() {}

// AsTime interprets the wall-clock fields in UTC.
func (dt LocalDateTime) AsTime() time.Time {
	return time.Unix(dt.Seconds, int64(dt.Nanos)).UTC()
}

// LegacyDateTime is the pre-v5 DateTime form: seconds are local wall-clock
// seconds (UTC plus offset) rather than offset-adjusted UTC.
type LegacyDateTime struct {
	Seconds       int64
	Nanos         uint32
	OffsetSeconds int32
}

func (LegacyDateTime) isValue() {}

// AsTime converts to the UTC instant and locates it at the fixed offset.
func (dt LegacyDateTime) AsTime() time.Time {
	utc := dt.Seconds - int64(dt.OffsetSeconds)
	return time.Unix(utc, int64(dt.Nanos)).In(time.FixedZone("", int(dt.OffsetSeconds)))
}

// LegacyDateTimeZoneId is the pre-v5 zoned DateTime form: seconds are local
// wall-clock seconds in the named zone.
type LegacyDateTimeZoneId struct {
	Seconds int64
	Nanos   uint32
	ZoneID  string
}

func (LegacyDateTimeZoneId) isValue() {}

// AsTime reconstructs the wall-clock fields in the named zone.
func (dt LegacyDateTimeZoneId) AsTime() (time.Time, error) {
	loc, err := time.LoadLocation(dt.ZoneID)
	if err != nil {
		return time.Time{}, err
	}
	wall := time.Unix(dt.Seconds, int64(dt.Nanos)).UTC()
	return time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc), nil
}

// Duration is a temporal amount split into months, days, seconds and
// nanoseconds, matching the server's calendar-aware arithmetic.
type Duration struct {
	Months  int64
	Days    int64
	Seconds int64
	Nanos   int32
}

func (Duration) isValue() {}

// DurationOf converts an exact Go duration (no months or days component).
func DurationOf(d time.Duration) Duration {
	return Duration{
		Seconds: int64(d / time.Second),
		Nanos:   int32(d % time.Second),
	}
}

// Point2D is a two-dimensional point in the coordinate system named by SRID.
type Point2D struct {
	SRID int32
	X    float64
	Y    float64
}

func (Point2D) isValue() {}

// Point3D is a three-dimensional point in the coordinate system named by SRID.
type Point3D struct {
	SRID int32
	X    float64
	Y    float64
	Z    float64
}

func (Point3D) isValue() {}
