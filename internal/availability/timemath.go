// Package availability holds the pure parts of the availability engine: time arithmetic,
// slot grid generation and collision filtering. Nothing here reads the wall clock or the database.
package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurneroService/pkg/types"
)

// CombineDateAndTime interprets tod as wall-clock time in loc on the calendar date of date
// and returns the equivalent UTC instant. Only the year, month and day of date are used.
// "24:00" is midnight at the start of the next day.
func CombineDateAndTime(date time.Time, tod types.TimeString, loc *time.Location) (time.Time, error) {
	h, m, s, err := tod.Clock()
	if err != nil {
		return time.Time{}, fmt.Errorf("combine %s with %q: %w", date.Format("2006-01-02"), string(tod), err)
	}
	if loc == nil {
		loc = time.UTC
	}

	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, s, 0, loc).UTC(), nil
}

// RoundUpToInterval rounds the minute component of t up to the next multiple of intervalMinutes
// and zeroes seconds. Instants already on the grid are returned unchanged (apart from zeroed seconds).
func RoundUpToInterval(t time.Time, intervalMinutes int) time.Time {
	truncated := t.Truncate(time.Minute)
	if intervalMinutes <= 1 {
		return truncated
	}

	minute := truncated.Minute()
	rounded := (minute + intervalMinutes - 1) / intervalMinutes * intervalMinutes
	return truncated.Add(time.Duration(rounded-minute) * time.Minute)
}

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Ranges that only touch at an endpoint do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// DayOfWeek returns 0 (Sunday) .. 6 (Saturday) for the calendar date of date
func DayOfWeek(date time.Time) int {
	return int(civilDate(date).Weekday())
}

// IsWithinBookingWindow reports whether today <= date <= today+maxDays,
// with "today" taken as the calendar date of now in loc.
func IsWithinBookingWindow(date, now time.Time, loc *time.Location, maxDays int) bool {
	today := Today(now, loc)
	requested := civilDate(date)
	return !requested.Before(today) && !requested.After(today.AddDate(0, 0, maxDays))
}

// MeetsMinimumLeadTime is always true unless date is today in loc,
// in which case slotStart must not be earlier than now + minLeadMinutes.
func MeetsMinimumLeadTime(slotStart, date, now time.Time, loc *time.Location, minLeadMinutes int) bool {
	if !civilDate(date).Equal(Today(now, loc)) {
		return true
	}
	return !slotStart.Before(now.Add(time.Duration(minLeadMinutes) * time.Minute))
}

// Today returns the calendar date of now in loc, as midnight UTC
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return civilDate(now.In(loc))
}

// civilDate drops the clock and zone of t, keeping its calendar date as midnight UTC
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
