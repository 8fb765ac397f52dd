package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/pkg/types"
)

// Schedule is a recurring weekly work window. Several rows for one day describe a split shift.
type Schedule struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	DayOfWeek      int // 0 = Sunday
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// ScheduleException overrides the recurring schedule on one calendar date.
//
//   - blocked, no times: the whole day is closed
//   - not blocked, times set: custom hours replace every schedule of that day
//   - blocked, times set: a partial block removed from the generated slots
type ScheduleException struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	SpecificDate   time.Time
	StartTime      *types.TimeString
	EndTime        *types.TimeString
	IsBlocked      bool
}

// IsTimeBounded reports whether both start and end are set
func (e *ScheduleException) IsTimeBounded() bool {
	return e.StartTime != nil && e.EndTime != nil && !e.StartTime.IsZero() && !e.EndTime.IsZero()
}

// IsFullDayBlock reports whether the exception closes the whole day
func (e *ScheduleException) IsFullDayBlock() bool {
	return e.IsBlocked && e.StartTime == nil && e.EndTime == nil
}

// IsCustomHours reports whether the exception replaces the day's schedules with its own range
func (e *ScheduleException) IsCustomHours() bool {
	return !e.IsBlocked && e.IsTimeBounded()
}
