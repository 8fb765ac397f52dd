package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/availability"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/catalog"
	shopRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/shop"
	"github.com/m04kA/SMC-TurneroService/internal/integrations/webhook"
	"github.com/m04kA/SMC-TurneroService/internal/usecase/get_available_slots"
)

// UseCase use case для создания записи из виджета или внешней автоматизации
type UseCase struct {
	shopRepo        ShopRepository
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	slotFinder      SlotFinder
	notifier        Notifier
	txManager       TransactionManager
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shopRepo ShopRepository,
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	slotFinder SlotFinder,
	notifier Notifier,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		shopRepo:        shopRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		slotFinder:      slotFinder,
		notifier:        notifier,
		txManager:       txManager,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка идут в сериализуемой транзакции под advisory-блокировкой специалиста;
// exclusion constraint в БД страхует от двойной записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: source=%s, shop=%s, service=%s, professional=%s, start=%s",
		req.Source, req.ShopID, req.ServiceID, req.ProfessionalID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем магазин, услугу и специалиста
	shop, err := uc.shopRepo.GetByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			uc.logger.Warn("CreateAppointment: shop id=%s not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get shop id=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}
	if err := shop.CheckTimezone(); err != nil {
		uc.logger.Warn("CreateAppointment: shop=%s: %v, falling back to %s", shop.ID, err, shop.TimezoneName())
	}
	loc := shop.Location()

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID, shop.ID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%s not found in shop=%s", req.ServiceID, shop.ID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	professional, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID, shop.ID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateAppointment: professional id=%s not found in shop=%s", req.ProfessionalID, shop.ID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.IsActive {
		uc.logger.Warn("CreateAppointment: professional id=%s is inactive", professional.ID)
		return nil, ErrProfessionalInactive
	}

	// 4. Конец записи: услуга + буфер специалиста
	blockDuration, err := availability.BlockDuration(service.DurationMinutes, professional.BufferTimeMinutes)
	if err != nil {
		uc.logger.Error("CreateAppointment: service id=%s has invalid duration: %v", service.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	start := req.StartTime.UTC()
	end := start.Add(time.Duration(blockDuration) * time.Minute)

	// 5. Запрошенное время должно быть одним из свободных слотов на эту дату
	localStart := start.In(loc)
	date := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, time.UTC)
	if err := uc.checkSlot(ctx, shop.ID, service.ID, professional.ID, date, start); err != nil {
		return nil, err
	}

	// 6. Готовим запись; ID нужен заранее для токена отмены
	id := uuid.New()
	token := webhook.GenerateCancellationToken(id, now, uc.settings.CancellationSecret)

	email := req.CustomerEmail
	if email == nil && req.Source == SourceWidget {
		placeholder := placeholderEmail(req.CustomerPhone)
		email = &placeholder
	}

	serviceID := service.ID
	appointment := &domain.Appointment{
		ID:                id,
		ShopID:            shop.ID,
		ProfessionalID:    professional.ID,
		ServiceID:         &serviceID,
		StartTime:         start,
		EndTime:           end,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerEmail:     email,
		Notes:             req.Notes,
		Status:            domain.StatusPending,
		CancellationToken: &token,
	}

	// 7. Проверка пересечений и вставка под блокировкой специалиста
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockProfessional(txCtx, professional.ID); err != nil {
			return fmt.Errorf("%w: failed to lock professional: %v", ErrInternal, err)
		}

		overlap, err := uc.appointmentRepo.HasOverlap(txCtx, professional.ID, start, end)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
		}
		if overlap {
			return ErrSlotNotAvailable
		}

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateAppointment: slot %s is already taken for professional=%s", start.Format(time.RFC3339), professional.ID)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: created appointment id=%s for shop=%s", created.ID, shop.ID)

	// 8. Уведомление уходит после коммита и не влияет на результат
	uc.notifier.NotifyCreated(&domain.AppointmentDetails{
		Appointment:  *created,
		Shop:         *shop,
		Professional: *professional,
		Service:      service,
	}, token)

	return &Response{
		ID:                created.ID,
		Status:            string(created.Status),
		StartTime:         created.StartTime,
		EndTime:           created.EndTime,
		Timezone:          loc.String(),
		CancellationToken: token,
		CancellationURL:   webhook.CancellationURL(uc.settings.PublicBaseURL, shop.Slug, token),
		CustomerName:      created.CustomerName,
		CustomerPhone:     created.CustomerPhone,
		CustomerEmail:     created.CustomerEmail,
		ProfessionalID:    professional.ID,
		ProfessionalName:  professional.Name,
		ServiceID:         service.ID,
		ServiceName:       service.Name,
		CreatedAt:         created.CreatedAt,
	}, nil
}

// checkSlot сверяет запрошенное время со свободными слотами на дату
func (uc *UseCase) checkSlot(ctx context.Context, shopID, serviceID, professionalID uuid.UUID, date, start time.Time) error {
	slots, err := uc.slotFinder.Execute(ctx, &get_available_slots.Request{
		ShopID:         shopID,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
		Date:           date,
	})
	if err != nil {
		switch {
		case errors.Is(err, get_available_slots.ErrOutOfWindow):
			uc.logger.Warn("CreateAppointment: date=%s is outside the booking window", date.Format(domain.DateFormat))
			return ErrOutOfWindow
		case errors.Is(err, get_available_slots.ErrShopNotFound):
			return ErrShopNotFound
		case errors.Is(err, get_available_slots.ErrServiceNotFound):
			return ErrServiceNotFound
		case errors.Is(err, get_available_slots.ErrProfessionalNotFound):
			return ErrProfessionalNotFound
		case errors.Is(err, get_available_slots.ErrProfessionalInactive):
			return ErrProfessionalInactive
		case errors.Is(err, get_available_slots.ErrInvalidInput):
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("CreateAppointment: failed to compute availability: %v", err)
			return fmt.Errorf("%w: failed to compute availability: %v", ErrInternal, err)
		}
	}

	if !slots.Contains(start) {
		uc.logger.Warn("CreateAppointment: start=%s is not among %d free slots", start.Format(time.RFC3339), len(slots.Slots))
		return ErrSlotNotAvailable
	}

	return nil
}
