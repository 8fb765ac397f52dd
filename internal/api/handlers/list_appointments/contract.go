package list_appointments

import (
	"context"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByDay(ctx context.Context, shop *domain.Shop, date string) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
