// Package schedule implements the availability engine: clock-time
// overlap checks, conflict detection for one-off reservations and
// recurring member schedules, and the 365-day availability grid.
// Everything in this package is pure computation over rows that the
// caller has already loaded; persistence stays in the repository layer.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BusinessZone is the single fixed offset the venue operates in (UTC+7,
// western Indonesia).  All calendar-day arithmetic for the grid and the
// validity windows happens in this zone.
var BusinessZone = time.FixedZone("WIB", 7*60*60)

// Business-day slot boundaries.  Slots are one hour wide from 06:00
// (inclusive) to 22:00 (exclusive), giving 16 slots per day.
const (
	OpenHour    = 6
	CloseHour   = 22
	SlotsPerDay = CloseHour - OpenHour
)

// ParseClock converts an "HH:MM" 24-hour string into minutes since
// midnight.  It rejects anything that does not parse as a valid clock
// time; malformed input is a caller error and is never coerced.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// Overlaps reports whether two half-open minute ranges [aStart, aEnd)
// and [bStart, bEnd) intersect.  Ranges that merely touch at a
// boundary (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// OverlapsClock is Overlaps over "HH:MM" strings.  Any malformed time
// fails the whole comparison with an error.
func OverlapsClock(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := ParseClock(aStart)
	if err != nil {
		return false, err
	}
	ae, err := ParseClock(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := ParseClock(bStart)
	if err != nil {
		return false, err
	}
	be, err := ParseClock(bEnd)
	if err != nil {
		return false, err
	}
	return Overlaps(as, ae, bs, be), nil
}

// ValidateRange parses a start/end pair and checks that the range is
// non-empty.  It returns the parsed minute offsets.
func ValidateRange(start, end string) (int, int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if e <= s {
		return 0, 0, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return s, e, nil
}

// DurationHours returns the number of billable hours in [startMin,
// endMin), rounding partial hours up.
func DurationHours(startMin, endMin int) uint64 {
	mins := endMin - startMin
	if mins <= 0 {
		return 0
	}
	return uint64((mins + 59) / 60)
}

// TruncateToDay drops the time component of t in the business zone,
// returning midnight of the same calendar day.
func TruncateToDay(t time.Time) time.Time {
	t = t.In(BusinessZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, BusinessZone)
}
