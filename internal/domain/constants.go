package domain

// Default availability parameters
const (
	DefaultSlotIntervalMinutes = 5
	DefaultMaxBookingDays      = 30
	DefaultMinLeadTimeMinutes  = 60
	DefaultTimezone            = "America/Argentina/Buenos_Aires"
)

// Business validation constants
const (
	MaxCustomerNameLength  = 200
	MaxCustomerPhoneLength = 50
	MaxCustomerEmailLength = 254
	MaxNotesLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// PlaceholderEmailDomain is used when a widget booking carries no e-mail
const PlaceholderEmailDomain = "no-email.placeholder"

// OccupyingStatuses список статусов, при которых запись занимает время в расписании
// Только отмененная запись освобождает слот
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}
