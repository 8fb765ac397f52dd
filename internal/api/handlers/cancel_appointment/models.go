package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/m04kA/SMC-TurneroService/internal/usecase/cancel_appointment"
)

// CancelByTokenRequest HTTP request model
type CancelByTokenRequest struct {
	Token string `json:"token"`
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	Success     bool   `json:"success"`
	ID          string `json:"id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelled_at"`
	CancelledBy string `json:"cancelled_by"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		Success:     true,
		ID:          resp.ID.String(),
		Status:      resp.Status,
		CancelledAt: resp.CancelledAt.UTC().Format(time.RFC3339),
		CancelledBy: string(resp.CancelledBy),
	}
}
