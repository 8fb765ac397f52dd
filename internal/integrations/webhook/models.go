package webhook

import (
	"encoding/json"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// DeliveryResult итог доставки вебхука после всех попыток
type DeliveryResult struct {
	Success    bool
	StatusCode *int   // последний полученный HTTP статус, nil если ответа не было
	Error      string // последняя ошибка, пусто при успехе
	Attempts   int
}

// Payload документ события, отправляемый получателю
type Payload struct {
	Event        domain.WebhookEvent  `json:"event"`
	Timestamp    string               `json:"timestamp"`
	Shop         ShopSummary          `json:"shop"`
	Appointment  *AppointmentSummary  `json:"appointment,omitempty"`
	Customer     *CustomerSummary     `json:"customer,omitempty"`
	Professional *ProfessionalSummary `json:"professional,omitempty"`
	Service      *ServiceSummary      `json:"service,omitempty"`
	CancelledBy  domain.CancelledBy   `json:"cancelled_by,omitempty"`
	Message      string               `json:"message,omitempty"`
}

type ShopSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone,omitempty"`
}

type AppointmentSummary struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	CancellationToken string `json:"cancellation_token,omitempty"`
	CancellationURL   string `json:"cancellation_url,omitempty"`
	CancelledAt       string `json:"cancelled_at,omitempty"`
}

type CustomerSummary struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email"`
}

type ProfessionalSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ServiceSummary struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	DurationMinutes int          `json:"duration_minutes"`
	Price           *json.Number `json:"price"`
}
