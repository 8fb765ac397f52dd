package domain

import "time"

// TimeRange is a half-open interval [Start, End) of absolute instants
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// TimeSlot is a candidate or booked window. End is Start plus the block duration.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Duration returns the slot length
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// AppointmentOccupation is a range made unavailable by a non-cancelled appointment
type AppointmentOccupation struct {
	Start time.Time
	End   time.Time
}
