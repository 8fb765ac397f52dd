package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCancelled AppointmentStatus = "cancelled"
)

// allowedTransitions описывает конечный автомат статусов записи
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// ParseAppointmentStatus validates a raw status value
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch status := AppointmentStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transition is possible
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := allowedTransitions[s]
	return !ok
}

// CanTransitionTo reports whether the status machine allows moving from s to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents a booked appointment
type Appointment struct {
	ID                uuid.UUID
	ShopID            uuid.UUID
	ProfessionalID    uuid.UUID
	ServiceID         *uuid.UUID
	StartTime         time.Time
	EndTime           time.Time
	CustomerName      string
	CustomerPhone     string
	CustomerEmail     *string
	Notes             *string
	Status            AppointmentStatus
	CancellationToken *string
	CancelledAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOccupying returns true if the appointment blocks its time range
func (a *Appointment) IsOccupying() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// Occupation returns the time range the appointment occupies
func (a *Appointment) Occupation() AppointmentOccupation {
	return AppointmentOccupation{Start: a.StartTime, End: a.EndTime}
}

// AppointmentDetails is an appointment joined with the entities a webhook payload or agenda needs
type AppointmentDetails struct {
	Appointment  Appointment
	Shop         Shop
	Professional Professional
	Service      *Service
}
