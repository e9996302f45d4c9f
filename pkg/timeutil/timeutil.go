// Package timeutil provides calendar helpers bound to the timezone the
// placement office works in. Posting windows are whole days, so "today"
// must be computed in that zone rather than in UTC.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Zone answers date questions in one timezone. The zero value uses UTC.
type Zone struct {
	loc *time.Location
	now func() time.Time
}

// LoadZone resolves an IANA name such as "Asia/Singapore". An empty name
// or "UTC" yields UTC; "Local" yields the host zone.
func LoadZone(name string) (Zone, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "", "UTC":
		return NewZone(time.UTC), nil
	case "Local":
		return NewZone(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("timeutil: unknown timezone %q: %w", name, err)
	}
	return NewZone(loc), nil
}

// NewZone creates a Zone using the wall clock.
func NewZone(loc *time.Location) Zone {
	return Zone{loc: loc, now: time.Now}
}

// WithNow returns a copy of z that reads the time from now.
func (z Zone) WithNow(now func() time.Time) Zone {
	z.now = now
	return z
}

// Location returns the zone's location.
func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// Now returns the current instant in the zone.
func (z Zone) Now() time.Time {
	now := z.now
	if now == nil {
		now = time.Now
	}
	return now().In(z.Location())
}

// Today returns the current calendar day in the zone as a UTC midnight
// date, the representation used by posting windows.
func (z Zone) Today() time.Time {
	return DateOf(z.Now())
}

// DateOf keeps the calendar day of t as seen in t's own location.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// DaysUntil returns the days from today until day in the zone.
func (z Zone) DaysUntil(day time.Time) int {
	return DaysBetween(z.Today(), day)
}

// DescribeDeadline renders a closing date relative to today, for CLI output.
func (z Zone) DescribeDeadline(closeDate time.Time) string {
	switch n := z.DaysUntil(closeDate); {
	case n < 0:
		return "closed"
	case n == 0:
		return "closes today"
	case n == 1:
		return "closes tomorrow"
	default:
		return fmt.Sprintf("closes in %d days", n)
	}
}
