package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// ShopRepository интерфейс репозитория магазинов
type ShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
}

// CatalogRepository интерфейс репозитория услуг и специалистов
type CatalogRepository interface {
	GetService(ctx context.Context, id, shopID uuid.UUID) (*domain.Service, error)
	GetProfessional(ctx context.Context, id, shopID uuid.UUID) (*domain.Professional, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	// ListSchedules возвращает все рабочие интервалы специалиста на день недели (0 = воскресенье)
	ListSchedules(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) ([]domain.Schedule, error)
	// ListExceptions возвращает исключения специалиста на календарную дату
	ListExceptions(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]domain.ScheduleException, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListOccupying возвращает интервалы неотмененных записей, пересекающие [from, to)
	ListOccupying(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.AppointmentOccupation, error)
}

// Metrics интерфейс метрик расчета доступности
type Metrics interface {
	ObserveAvailability(result string, slots int)
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
