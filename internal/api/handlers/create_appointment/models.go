package create_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	createAppointment "github.com/m04kA/SMC-TurneroService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model.
// ShopID читается только из виджета; для внешнего API магазин определяется по API ключу.
type CreateAppointmentRequest struct {
	ShopID         string  `json:"shop_id"`
	ProfessionalID string  `json:"professional_id"`
	ServiceID      string  `json:"service_id"`
	StartTime      string  `json:"start_time"` // RFC3339, "2026-01-20T10:20:00-03:00"
	CustomerName   string  `json:"customer_name"`
	CustomerPhone  string  `json:"customer_phone"`
	CustomerEmail  *string `json:"customer_email,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	Success      bool            `json:"success"`
	Appointment  AppointmentInfo `json:"appointment"`
	Customer     CustomerInfo    `json:"customer"`
	Professional EntityInfo      `json:"professional"`
	Service      EntityInfo      `json:"service"`
}

// AppointmentInfo данные созданной записи; время в часовом поясе магазина
type AppointmentInfo struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Timezone          string `json:"timezone"`
	CancellationToken string `json:"cancellation_token"`
	CancellationURL   string `json:"cancellation_url"`
}

type CustomerInfo struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
}

type EntityInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FailureResponse тело ответа с ошибкой
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(source createAppointment.Source, shopID uuid.UUID) (*createAppointment.Request, error) {
	if r.ProfessionalID == "" || r.ServiceID == "" || r.StartTime == "" || r.CustomerName == "" || r.CustomerPhone == "" {
		return nil, errMissingFields
	}

	professionalID, err := uuid.Parse(r.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("%w: professional_id", errInvalidField)
	}
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: service_id", errInvalidField)
	}
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time", errInvalidField)
	}

	return &createAppointment.Request{
		Source:         source,
		ShopID:         shopID,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		StartTime:      start.UTC(),
		CustomerName:   r.CustomerName,
		CustomerPhone:  r.CustomerPhone,
		CustomerEmail:  r.CustomerEmail,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	loc, err := time.LoadLocation(resp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	return &CreateAppointmentResponse{
		Success: true,
		Appointment: AppointmentInfo{
			ID:                resp.ID.String(),
			Status:            resp.Status,
			StartTime:         resp.StartTime.In(loc).Format(time.RFC3339),
			EndTime:           resp.EndTime.In(loc).Format(time.RFC3339),
			Timezone:          loc.String(),
			CancellationToken: resp.CancellationToken,
			CancellationURL:   resp.CancellationURL,
		},
		Customer: CustomerInfo{
			Name:  resp.CustomerName,
			Phone: resp.CustomerPhone,
			Email: resp.CustomerEmail,
		},
		Professional: EntityInfo{ID: resp.ProfessionalID.String(), Name: resp.ProfessionalName},
		Service:      EntityInfo{ID: resp.ServiceID.String(), Name: resp.ServiceName},
	}
}
