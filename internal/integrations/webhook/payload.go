package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// TestMessage текст тестового вебхука
const TestMessage = "Este es un webhook de prueba desde Turnero SaaS"

// CancellationURL returns the public page where a customer cancels with token
func CancellationURL(baseURL, shopSlug, token string) string {
	return fmt.Sprintf("%s/widget/%s/cancelar/%s", strings.TrimRight(baseURL, "/"), shopSlug, token)
}

// BuildCreatedPayload builds the appointment.created document
func BuildCreatedPayload(d *domain.AppointmentDetails, token, baseURL string, now time.Time) *Payload {
	p := basePayload(domain.EventAppointmentCreated, d, now)
	p.Appointment.CancellationToken = token
	p.Appointment.CancellationURL = CancellationURL(baseURL, d.Shop.Slug, token)

	return p
}

// BuildCancelledPayload builds the appointment.cancelled document
func BuildCancelledPayload(d *domain.AppointmentDetails, cancelledBy domain.CancelledBy, now time.Time) *Payload {
	loc := d.Shop.Location()

	cancelledAt := now
	if d.Appointment.CancelledAt != nil {
		cancelledAt = *d.Appointment.CancelledAt
	}

	p := basePayload(domain.EventAppointmentCancelled, d, now)
	p.Appointment.Status = string(domain.StatusCancelled)
	p.Appointment.CancelledAt = formatInZone(cancelledAt, loc)
	p.CancelledBy = cancelledBy

	return p
}

// BuildTestPayload builds the webhook.test document
func BuildTestPayload(shop *domain.Shop, now time.Time) *Payload {
	return &Payload{
		Event:     domain.EventWebhookTest,
		Timestamp: formatInZone(now, shop.Location()),
		Shop: ShopSummary{
			ID:   shop.ID.String(),
			Name: shop.Name,
			Slug: shop.Slug,
		},
		Message: TestMessage,
	}
}

func basePayload(event domain.WebhookEvent, d *domain.AppointmentDetails, now time.Time) *Payload {
	loc := d.Shop.Location()
	a := d.Appointment

	p := &Payload{
		Event:     event,
		Timestamp: formatInZone(now, loc),
		Shop: ShopSummary{
			ID:       d.Shop.ID.String(),
			Name:     d.Shop.Name,
			Slug:     d.Shop.Slug,
			Timezone: d.Shop.TimezoneName(),
		},
		Appointment: &AppointmentSummary{
			ID:        a.ID.String(),
			Status:    string(a.Status),
			StartTime: formatInZone(a.StartTime, loc),
			EndTime:   formatInZone(a.EndTime, loc),
		},
		Customer: &CustomerSummary{
			Name:  a.CustomerName,
			Phone: a.CustomerPhone,
			Email: a.CustomerEmail,
		},
		Professional: &ProfessionalSummary{
			ID:   d.Professional.ID.String(),
			Name: d.Professional.Name,
		},
	}

	if d.Service != nil {
		p.Service = &ServiceSummary{
			ID:              d.Service.ID.String(),
			Name:            d.Service.Name,
			DurationMinutes: d.Service.DurationMinutes,
		}
		if d.Service.Price.Valid {
			price := json.Number(d.Service.Price.Decimal.String())
			p.Service.Price = &price
		}
	}

	return p
}

// formatInZone formats t as ISO-8601 with the numeric offset of loc
func formatInZone(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}
