package cancel_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// Request модель запроса на отмену.
// Клиент передает только Token; администратор передает ShopID и AppointmentID.
type Request struct {
	Token         string
	ShopID        uuid.UUID
	AppointmentID uuid.UUID
}

// cancelledBy определяет, кто отменяет запись
func (r *Request) cancelledBy() domain.CancelledBy {
	if r.Token != "" {
		return domain.CancelledByCustomer
	}
	return domain.CancelledByAdmin
}

// Response модель ответа об отмене
type Response struct {
	ID          uuid.UUID
	Status      string
	CancelledAt time.Time
	CancelledBy domain.CancelledBy
}
