package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetDetailsByID(ctx context.Context, id, shopID uuid.UUID) (*domain.AppointmentDetails, error)
	ListDetailsByShop(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*domain.AppointmentDetails, error)
	UpdateStatus(ctx context.Context, id, shopID uuid.UUID, expected, next domain.AppointmentStatus, at time.Time) error
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
