package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-TurneroService/internal/service/appointments/models"
)

// Service сервис административных операций с записями магазина
type Service struct {
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID в пределах магазина
func (s *Service) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for shop=%s", id, shopID)

	details, err := s.getDetails(ctx, "GetByID", shopID, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainDetails(details), nil
}

// ListByDay возвращает агенду магазина на календарный день в его часовом поясе.
// Отмененные записи тоже попадают в список, чтобы администратор видел историю дня.
func (s *Service) ListByDay(ctx context.Context, shop *domain.Shop, date string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByDay: fetching agenda for shop=%s date=%s", shop.ID, date)

	loc := shop.Location()
	day, err := time.ParseInLocation(domain.DateFormat, date, loc)
	if err != nil {
		s.logger.Warn("ListByDay: invalid date=%q for shop=%s", date, shop.ID)
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	// Границы дня считаем в часовом поясе магазина
	from := day
	to := day.AddDate(0, 0, 1)

	list, err := s.appointmentRepo.ListDetailsByShop(ctx, shop.ID, from, to)
	if err != nil {
		s.logger.Error("ListByDay: repository error for shop=%s: %v", shop.ID, err)
		return nil, fmt.Errorf("%w: ListByDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDay: fetched %d appointments for shop=%s date=%s", len(list), shop.ID, date)
	return models.FromDomainDetailsList(date, list), nil
}

// UpdateStatus переводит запись в новый статус по конечному автомату.
// Отмена через этот метод запрещена: она обязана пройти через операцию отмены с уведомлением.
func (s *Service) UpdateStatus(ctx context.Context, shopID, id uuid.UUID, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s for shop=%s", id, req.Status, shopID)

	// Валидируем статус
	next, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%q for appointment id=%s", req.Status, id)
		return nil, ErrInvalidStatus
	}
	if next == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancel requested via status for appointment id=%s", id)
		return nil, ErrCancelNotAllowed
	}

	details, err := s.getDetails(ctx, "UpdateStatus", shopID, id)
	if err != nil {
		return nil, err
	}

	current := details.Appointment.Status
	if !current.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%s", current, next, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}

	now := s.timeProvider.Now()
	if err := s.appointmentRepo.UpdateStatus(ctx, id, shopID, current, next, now); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("UpdateStatus: appointment id=%s not found during update", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrStatusChanged):
			s.logger.Warn("UpdateStatus: appointment id=%s changed concurrently", id)
			return nil, ErrStatusChanged
		default:
			s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	details.Appointment.Status = next
	details.Appointment.UpdatedAt = now

	s.logger.Info("UpdateStatus: appointment id=%s moved %s -> %s", id, current, next)
	return models.FromDomainDetails(details), nil
}

// CompletePast завершает подтвержденные записи, время которых уже прошло
func (s *Service) CompletePast(ctx context.Context) (int64, error) {
	completed, err := s.appointmentRepo.CompletePast(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("CompletePast: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompletePast - repository error: %v", ErrInternal, err)
	}

	if completed > 0 {
		s.logger.Info("CompletePast: completed %d appointments", completed)
	}
	return completed, nil
}

// RunSweeper периодически вызывает CompletePast до отмены ctx
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	s.logger.Info("RunSweeper: started with interval=%s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// Ошибка уже залогирована в CompletePast
		_, _ = s.CompletePast(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("RunSweeper: stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) getDetails(ctx context.Context, op string, shopID, id uuid.UUID) (*domain.AppointmentDetails, error) {
	details, err := s.appointmentRepo.GetDetailsByID(ctx, id, shopID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return details, nil
}
