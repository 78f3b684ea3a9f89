package bolt_test

import (
	"testing"
	"time"

	"github.com/mickamy/graphbolt/bolt"
)

func TestDateTimeInstant(t *testing.T) {
	t.Parallel()

	dt := bolt.DateTime{Seconds: 946_691_999, Nanos: 420_000, OffsetSeconds: -7200}
	got := dt.AsTime()

	wantUTC := time.Date(1999, 12, 31, 23, 59, 59, 420_000, time.UTC)
	if !got.Equal(wantUTC) {
		t.Errorf("instant = %v, want %v", got.UTC(), wantUTC)
	}
	if got.Hour() != 21 || got.Minute() != 59 || got.Second() != 59 {
		t.Errorf("local clock = %02d:%02d:%02d, want 21:59:59", got.Hour(), got.Minute(), got.Second())
	}
	_, offset := got.Zone()
	if offset != -7200 {
		t.Errorf("offset = %d, want -7200", offset)
	}
}

func TestLegacyDateTimeInstant(t *testing.T) {
	t.Parallel()

	// The legacy form stores local wall-clock seconds. 21:59:59 at -02:00
	// is 23:59:59 UTC.
	local := time.Date(1999, 12, 31, 21, 59, 59, 0, time.UTC).Unix()
	dt := bolt.LegacyDateTime{Seconds: local, OffsetSeconds: -7200}
	got := dt.AsTime()

	wantUTC := time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)
	if !got.Equal(wantUTC) {
		t.Errorf("instant = %v, want %v", got.UTC(), wantUTC)
	}
}

func TestDateAsTime(t *testing.T) {
	t.Parallel()

	d := bolt.Date{Days: 1337}
	got := d.AsTime()
	if got.Year() != 1973 || got.Month() != time.August || got.Day() != 30 {
		t.Errorf("date = %v, want 1973-08-30", got)
	}

	back := bolt.DateOf(got)
	if back.Days != 1337 {
		t.Errorf("round trip days = %d, want 1337", back.Days)
	}
}

func TestDateTimeOfRoundTrip(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("", -7200)
	in := time.Date(1999, 12, 31, 21, 59, 59, 420_000, loc)
	dt := bolt.DateTimeOf(in)
	if dt.Seconds != 946_691_999 || dt.Nanos != 420_000 || dt.OffsetSeconds != -7200 {
		t.Errorf("got %+v", dt)
	}
	if !dt.AsTime().Equal(in) {
		t.Errorf("round trip = %v, want %v", dt.AsTime(), in)
	}
}

func TestDateTimeZoneId(t *testing.T) {
	t.Parallel()

	dt := bolt.DateTimeZoneId{Seconds: 946_684_799, Nanos: 0, ZoneID: "UTC"}
	got, err := dt.AsTime()
	if err != nil {
		t.Fatalf("as time: %v", err)
	}
	if got.Unix() != 946_684_799 {
		t.Errorf("instant = %v", got)
	}

	bad := bolt.DateTimeZoneId{Seconds: 0, ZoneID: "Not/AZone"}
	if _, err := bad.AsTime(); err == nil {
		t.Error("expected error for unknown zone id")
	}
}

func TestLocalTimes(t *testing.T) {
	t.Parallel()

	lt := bolt.LocalTime{Nanos: int64(90 * time.Minute)}
	if got := lt.AsTime(); got.Hour() != 1 || got.Minute() != 30 {
		t.Errorf("local time = %v, want 01:30", got)
	}

	ldt := bolt.LocalDateTime{Seconds: 86_400 + 3600, Nanos: 9}
	got := ldt.AsTime()
	if got.Day() != 2 || got.Hour() != 1 || got.Nanosecond() != 9 {
		t.Errorf("local datetime = %v", got)
	}
}

func TestDurationOf(t *testing.T) {
	t.Parallel()

	d := bolt.DurationOf(90*time.Second + 500*time.Nanosecond)
	if d.Seconds != 90 || d.Nanos != 500 || d.Months != 0 || d.Days != 0 {
		t.Errorf("got %+v", d)
	}
}
