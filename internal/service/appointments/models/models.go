package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// AppointmentResponse ответ с данными записи; время отдается в часовом поясе магазина
type AppointmentResponse struct {
	ID               string       `json:"id"`
	ShopID           string       `json:"shop_id"`
	ProfessionalID   string       `json:"professional_id"`
	ProfessionalName string       `json:"professional_name"`
	ServiceID        *string      `json:"service_id,omitempty"`
	ServiceName      *string      `json:"service_name,omitempty"`
	ServicePrice     *json.Number `json:"service_price,omitempty"`
	Date             string       `json:"date"` // "2026-01-20"
	Time             string       `json:"time"` // "10:20"
	StartTime        string       `json:"start_time"`
	EndTime          string       `json:"end_time"`
	Timezone         string       `json:"timezone"`
	CustomerName     string       `json:"customer_name"`
	CustomerPhone    string       `json:"customer_phone"`
	CustomerEmail    *string      `json:"customer_email,omitempty"`
	Notes            *string      `json:"notes,omitempty"`
	Status           string       `json:"status"`
	CancelledAt      *string      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// AppointmentListResponse ответ со списком записей (агенда на день)
type AppointmentListResponse struct {
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainDetails конвертирует domain модель в DTO
func FromDomainDetails(d *domain.AppointmentDetails) *AppointmentResponse {
	if d == nil {
		return nil
	}

	loc := d.Shop.Location()
	a := d.Appointment
	start := a.StartTime.In(loc)

	resp := &AppointmentResponse{
		ID:               a.ID.String(),
		ShopID:           a.ShopID.String(),
		ProfessionalID:   a.ProfessionalID.String(),
		ProfessionalName: d.Professional.Name,
		Date:             start.Format(domain.DateFormat),
		Time:             start.Format(domain.TimeFormat),
		StartTime:        start.Format(time.RFC3339),
		EndTime:          a.EndTime.In(loc).Format(time.RFC3339),
		Timezone:         loc.String(),
		CustomerName:     a.CustomerName,
		CustomerPhone:    a.CustomerPhone,
		CustomerEmail:    a.CustomerEmail,
		Notes:            a.Notes,
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if d.Service != nil {
		id := d.Service.ID.String()
		name := d.Service.Name
		resp.ServiceID = &id
		resp.ServiceName = &name
		if d.Service.Price.Valid {
			price := json.Number(d.Service.Price.Decimal.String())
			resp.ServicePrice = &price
		}
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.In(loc).Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainDetailsList конвертирует список domain моделей в DTO
func FromDomainDetailsList(date string, list []*domain.AppointmentDetails) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Date:         date,
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}

	for _, d := range list {
		if item := FromDomainDetails(d); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}
