package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/appointment"
)

// UseCase use case для отмены записи клиентом (по токену) или администратором
type UseCase struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case отмены записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	req.Token = strings.TrimSpace(req.Token)
	by := req.cancelledBy()
	uc.logger.Info("CancelAppointment: by=%s, shop=%s, appointment=%s", by, req.ShopID, req.AppointmentID)

	// 1. Валидация входных данных
	if req.Token == "" && (req.ShopID == uuid.Nil || req.AppointmentID == uuid.Nil) {
		uc.logger.Warn("CancelAppointment: neither token nor appointment id given")
		return nil, fmt.Errorf("%w: cancellation token is required", ErrInvalidInput)
	}

	// 2. Находим запись
	details, err := uc.load(ctx, req)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment not found (by=%s)", by)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: repository error: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	appointment := &details.Appointment

	// 3. Проверяем статус
	if appointment.IsCancelled() {
		uc.logger.Warn("CancelAppointment: appointment id=%s already cancelled", appointment.ID)
		return nil, ErrAlreadyCancelled
	}
	if !appointment.CanBeCancelled() {
		uc.logger.Warn("CancelAppointment: appointment id=%s cannot be cancelled, status=%s", appointment.ID, appointment.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, appointment.Status)
	}

	// 4. Отменяем, только если статус не изменился параллельно
	now := uc.timeProvider.Now()
	err = uc.appointmentRepo.UpdateStatus(ctx, appointment.ID, appointment.ShopID, appointment.Status, domain.StatusCancelled, now)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrStatusChanged):
			uc.logger.Warn("CancelAppointment: appointment id=%s changed concurrently", appointment.ID)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrCannotCancel)
		default:
			uc.logger.Error("CancelAppointment: failed to cancel appointment id=%s: %v", appointment.ID, err)
			return nil, fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}
	}

	appointment.Status = domain.StatusCancelled
	appointment.CancelledAt = &now
	appointment.UpdatedAt = now

	uc.logger.Info("CancelAppointment: cancelled appointment id=%s by=%s", appointment.ID, by)

	// 5. Уведомление уходит асинхронно
	uc.notifier.NotifyCancelled(details, by)

	return &Response{
		ID:          appointment.ID,
		Status:      string(appointment.Status),
		CancelledAt: now,
		CancelledBy: by,
	}, nil
}

func (uc *UseCase) load(ctx context.Context, req *Request) (*domain.AppointmentDetails, error) {
	if req.Token != "" {
		return uc.appointmentRepo.GetDetailsByCancellationToken(ctx, req.Token)
	}
	return uc.appointmentRepo.GetDetailsByID(ctx, req.AppointmentID, req.ShopID)
}
