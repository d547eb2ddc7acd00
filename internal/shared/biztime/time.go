// Package biztime converts between stored UTC instants and the wall clock of
// a named installation timezone. Callers pass the location explicitly.
package biztime

import (
	"fmt"
	"time"
)

// DefaultTimezone is used when no installation timezone is configured.
const DefaultTimezone = "America/Chicago"

// LoadLocation resolves an IANA timezone name, falling back to DefaultTimezone
// when name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// StartOfDayUTC returns local midnight of t's calendar day in loc, as UTC.
func StartOfDayUTC(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}

// DayRangeUTC returns the half-open UTC range [start, end) covering the local
// calendar days from..to inclusive. Either bound may be zero to leave it open.
func DayRangeUTC(from, to time.Time, loc *time.Location) (start, end time.Time) {
	if !from.IsZero() {
		start = StartOfDayUTC(from, loc)
	}
	if !to.IsZero() {
		local := to.In(loc)
		end = time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).UTC()
	}
	return start, end
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t, nil
}
