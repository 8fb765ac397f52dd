package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Shop is a tenant: one business with its own staff, services and webhook settings
type Shop struct {
	ID             uuid.UUID
	Name           string
	Slug           string
	Timezone       string
	APIKey         string
	WebhookURL     *string
	WebhookEnabled bool
	CreatedAt      time.Time
}

// ErrUnknownTimezone is returned by CheckTimezone when the stored zone cannot be loaded
var ErrUnknownTimezone = errors.New("unknown shop timezone")

// defaultTimezone is the fallback for shops without a valid timezone
var defaultTimezone = DefaultTimezone

// SetDefaultTimezone replaces the fallback timezone. It is meant to be called once at startup.
func SetDefaultTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return err
	}
	defaultTimezone = name
	return nil
}

// Location returns the shop timezone, falling back to the default timezone when it is empty or unknown
func (s *Shop) Location() *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CheckTimezone reports whether Location will use the stored timezone.
// An empty timezone is not an error.
func (s *Shop) CheckTimezone() error {
	if s.Timezone == "" {
		return nil
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownTimezone, s.Timezone)
	}
	return nil
}

// TimezoneName returns the effective timezone name
func (s *Shop) TimezoneName() string {
	return s.Location().String()
}

// WebhookTarget returns the webhook URL when delivery is enabled
func (s *Shop) WebhookTarget() (string, bool) {
	if !s.WebhookEnabled || s.WebhookURL == nil || *s.WebhookURL == "" {
		return "", false
	}
	return *s.WebhookURL, true
}
