package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeString is returned when a string is not a valid HH:MM or HH:MM:SS time of day
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the 00:00..23:59 range
	ErrTimeOverflow = errors.New("time string overflow")
)

// TimeString is a wall-clock time of day without date or timezone, e.g. "09:00" or "09:00:00".
// PostgreSQL TIME columns are scanned into it. As in PostgreSQL, "24:00" is accepted as the end of the day.
type TimeString string

// NewTimeString formats the clock part of t as HH:MM.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and normalizes s. Both HH:MM and HH:MM:SS are accepted.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Clock returns the hour, minute and second components. Hour 24 only comes with zero minutes and seconds.
func (t TimeString) Clock() (hour, minute, second int, err error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	values := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
		}
		values[i] = v
	}

	hour, minute, second = values[0], values[1], values[2]
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if hour == 24 && (minute != 0 || second != 0) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	return hour, minute, second, nil
}

// Validate checks the HH:MM[:SS] format and component ranges.
func (t TimeString) Validate() error {
	_, _, _, err := t.Clock()
	return err
}

// Minutes returns the number of whole minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	h, m, _, err := t.Clock()
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// AddMinutes returns t shifted by the given number of minutes. Seconds are dropped.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.Minutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %s %+d minutes", ErrTimeOverflow, t, minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore reports whether t is strictly earlier than other. Invalid values compare as false.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.seconds()
	b, errB := other.seconds()
	return errA == nil && errB == nil && a < b
}

// IsAfter reports whether t is strictly later than other. Invalid values compare as false.
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.seconds()
	b, errB := other.seconds()
	return errA == nil && errB == nil && a > b
}

// IsZero reports whether t is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the HH:MM form.
func (t TimeString) String() string {
	if len(t) >= 5 {
		return string(t[:5])
	}
	return string(t)
}

func (t TimeString) seconds() (int, error) {
	h, m, s, err := t.Clock()
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + s, nil
}

// Scan implements sql.Scanner. lib/pq hands TIME columns over as time.Time, []byte or string.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = TimeString(v.Format("15:04:05"))
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// TIME может прийти с дробными секундами: "09:00:00.000000"
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}
