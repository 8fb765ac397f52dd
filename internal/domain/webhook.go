package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WebhookEvent names an outbound notification
type WebhookEvent string

const (
	EventAppointmentCreated   WebhookEvent = "appointment.created"
	EventAppointmentCancelled WebhookEvent = "appointment.cancelled"
	EventWebhookTest          WebhookEvent = "webhook.test"
)

// CancelledBy says who cancelled an appointment
type CancelledBy string

const (
	CancelledByCustomer CancelledBy = "customer"
	CancelledByAdmin    CancelledBy = "admin"
)

// WebhookDelivery is one persisted delivery outcome, visible to the shop owner
type WebhookDelivery struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	EventType    WebhookEvent
	Payload      json.RawMessage
	URL          string
	StatusCode   *int
	Success      bool
	ErrorMessage *string
	Attempts     int
	CreatedAt    time.Time
}
