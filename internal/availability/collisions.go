package availability

import (
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// Day describes the calendar day being filtered
type Day struct {
	Date           time.Time      // calendar date of the query
	Location       *time.Location // tenant timezone
	Now            time.Time
	MinLeadMinutes int
}

// FilterAppointmentCollisions drops slots that overlap any occupation
func FilterAppointmentCollisions(slots []domain.TimeSlot, occupations []domain.AppointmentOccupation) []domain.TimeSlot {
	if len(occupations) == 0 {
		return keep(slots, func(domain.TimeSlot) bool { return true })
	}
	return keep(slots, func(s domain.TimeSlot) bool {
		for _, o := range occupations {
			if Overlaps(s.Start, s.End, o.Start, o.End) {
				return false
			}
		}
		return true
	})
}

// FilterExceptionCollisions drops slots that overlap any time-bounded exception of the day,
// whatever its blocked flag. Exceptions without both times are ignored here.
func FilterExceptionCollisions(slots []domain.TimeSlot, exceptions []domain.ScheduleException, day Day) ([]domain.TimeSlot, error) {
	blocks := make([]domain.TimeRange, 0, len(exceptions))
	for i := range exceptions {
		exc := &exceptions[i]
		if !exc.IsTimeBounded() {
			continue
		}
		start, err := CombineDateAndTime(day.Date, *exc.StartTime, day.Location)
		if err != nil {
			return nil, err
		}
		end, err := CombineDateAndTime(day.Date, *exc.EndTime, day.Location)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, domain.TimeRange{Start: start, End: end})
	}

	return keep(slots, func(s domain.TimeSlot) bool {
		for _, b := range blocks {
			if Overlaps(s.Start, s.End, b.Start, b.End) {
				return false
			}
		}
		return true
	}), nil
}

// FilterMinimumLeadTime drops slots that start too soon when the day is today
func FilterMinimumLeadTime(slots []domain.TimeSlot, day Day) []domain.TimeSlot {
	return keep(slots, func(s domain.TimeSlot) bool {
		return MeetsMinimumLeadTime(s.Start, day.Date, day.Now, day.Location, day.MinLeadMinutes)
	})
}

// FilterAvailableSlots applies the appointment, exception and lead-time filters in that order.
// The relative order of the surviving slots is preserved.
func FilterAvailableSlots(
	slots []domain.TimeSlot,
	occupations []domain.AppointmentOccupation,
	exceptions []domain.ScheduleException,
	day Day,
) ([]domain.TimeSlot, error) {
	available := FilterAppointmentCollisions(slots, occupations)

	available, err := FilterExceptionCollisions(available, exceptions, day)
	if err != nil {
		return nil, err
	}

	return FilterMinimumLeadTime(available, day), nil
}

func keep(slots []domain.TimeSlot, pred func(domain.TimeSlot) bool) []domain.TimeSlot {
	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}
