package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusNoShow, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, ok := ParseAppointmentStatus("no_show")
	assert.True(t, ok)
	assert.Equal(t, StatusNoShow, s)

	_, ok = ParseAppointmentStatus("confirmado")
	assert.False(t, ok)
}

func TestAppointment_Occupying(t *testing.T) {
	for _, s := range OccupyingStatuses {
		a := Appointment{Status: s}
		assert.True(t, a.IsOccupying(), s)
	}
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsOccupying())
}

func TestScheduleException_Variants(t *testing.T) {
	start, end := ptrTime("10:00"), ptrTime("12:00")

	fullDay := ScheduleException{IsBlocked: true}
	assert.True(t, fullDay.IsFullDayBlock())
	assert.False(t, fullDay.IsCustomHours())
	assert.False(t, fullDay.IsTimeBounded())

	custom := ScheduleException{StartTime: start, EndTime: end}
	assert.True(t, custom.IsCustomHours())
	assert.False(t, custom.IsFullDayBlock())

	partial := ScheduleException{StartTime: start, EndTime: end, IsBlocked: true}
	assert.True(t, partial.IsTimeBounded())
	assert.False(t, partial.IsCustomHours())
	assert.False(t, partial.IsFullDayBlock())
}

func TestShop_Location(t *testing.T) {
	assert.Equal(t, DefaultTimezone, (&Shop{}).Location().String())
	assert.Equal(t, DefaultTimezone, (&Shop{Timezone: "Not/AZone"}).Location().String())
	assert.Equal(t, "Europe/Madrid", (&Shop{Timezone: "Europe/Madrid"}).Location().String())
}

func TestShop_WebhookTarget(t *testing.T) {
	url := "https://n8n.example.com/hook"

	_, ok := (&Shop{WebhookURL: &url}).WebhookTarget()
	assert.False(t, ok)

	got, ok := (&Shop{WebhookURL: &url, WebhookEnabled: true}).WebhookTarget()
	assert.True(t, ok)
	assert.Equal(t, url, got)
}

func TestShop_CheckTimezone(t *testing.T) {
	assert.NoError(t, (&Shop{}).CheckTimezone())
	assert.NoError(t, (&Shop{Timezone: "Europe/Madrid"}).CheckTimezone())
	assert.ErrorIs(t, (&Shop{Timezone: "Not/AZone"}).CheckTimezone(), ErrUnknownTimezone)
}

func TestSetDefaultTimezone(t *testing.T) {
	t.Cleanup(func() { _ = SetDefaultTimezone(DefaultTimezone) })

	assert.Error(t, SetDefaultTimezone("Mars/Olympus"))
	assert.Equal(t, DefaultTimezone, (&Shop{}).Location().String())

	assert.NoError(t, SetDefaultTimezone("America/Montevideo"))
	assert.Equal(t, "America/Montevideo", (&Shop{}).Location().String())
	assert.Equal(t, "Europe/Madrid", (&Shop{Timezone: "Europe/Madrid"}).Location().String())
}
