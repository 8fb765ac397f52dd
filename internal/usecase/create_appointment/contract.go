package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/usecase/get_available_slots"
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

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	LockProfessional(ctx context.Context, professionalID uuid.UUID) error
	HasOverlap(ctx context.Context, professionalID uuid.UUID, start, end time.Time) (bool, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// SlotFinder интерфейс расчета доступных слотов
type SlotFinder interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// Notifier интерфейс отправки вебхуков о новой записи
type Notifier interface {
	NotifyCreated(details *domain.AppointmentDetails, cancellationToken string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
