package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/availability"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/catalog"
	shopRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/shop"
)

// Результаты расчета для метрик
const (
	resultOK          = "ok"
	resultInvalid     = "invalid"
	resultOutOfWindow = "out_of_window"
	resultNotFound    = "not_found"
	resultInactive    = "inactive"
	resultError       = "error"
)

// UseCase use case для получения доступных слотов специалиста на дату
type UseCase struct {
	shopRepo        ShopRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shopRepo ShopRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		shopRepo:        shopRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
		settings:        validateSettings(settings),
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Отсутствие расписания, полностью заблокированный день и слишком длинная услуга
// не являются ошибками: в этих случаях возвращается пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, result, err := uc.execute(ctx, req)
	slots := 0
	if resp != nil {
		slots = len(resp.Slots)
	}
	uc.metrics.ObserveAvailability(result, slots)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, string, error) {
	uc.logger.Info("GetAvailableSlots: shop=%s, service=%s, professional=%s, date=%s",
		req.ShopID, req.ServiceID, req.ProfessionalID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, resultInvalid, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем магазин: от него зависит часовой пояс и понятие "сегодня"
	shop, err := uc.shopRepo.GetByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%s not found", req.ShopID)
			return nil, resultNotFound, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get shop id=%s: %v", req.ShopID, err)
		return nil, resultError, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}
	if err := shop.CheckTimezone(); err != nil {
		uc.logger.Warn("GetAvailableSlots: shop=%s: %v, falling back to %s", shop.ID, err, shop.TimezoneName())
	}
	loc := shop.Location()

	// 4. Проверяем окно бронирования
	if !availability.IsWithinBookingWindow(req.Date, now, loc, uc.settings.MaxBookingDays) {
		uc.logger.Warn("GetAvailableSlots: date=%s is outside the %d-day window for shop=%s",
			req.Date.Format(domain.DateFormat), uc.settings.MaxBookingDays, shop.ID)
		return nil, resultOutOfWindow, fmt.Errorf("%w: max %d days", ErrOutOfWindow, uc.settings.MaxBookingDays)
	}

	// 5. Получаем услугу и специалиста в пределах магазина
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID, shop.ID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found in shop=%s", req.ServiceID, shop.ID)
			return nil, resultNotFound, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, resultError, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	professional, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID, shop.ID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("GetAvailableSlots: professional id=%s not found in shop=%s", req.ProfessionalID, shop.ID)
			return nil, resultNotFound, ErrProfessionalNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get professional id=%s: %v", req.ProfessionalID, err)
		return nil, resultError, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if !professional.IsActive {
		uc.logger.Warn("GetAvailableSlots: professional id=%s is inactive", professional.ID)
		return nil, resultInactive, ErrProfessionalInactive
	}

	// 6. Длительность блока: услуга + буфер специалиста
	blockDuration, err := availability.BlockDuration(service.DurationMinutes, professional.BufferTimeMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: service id=%s has invalid duration: %v", service.ID, err)
		return nil, resultError, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	empty := &Response{Date: req.Date, Timezone: loc.String(), Slots: []Slot{}}

	// 7. Рабочие интервалы на день недели; без расписания слотов нет
	dayOfWeek := availability.DayOfWeek(req.Date)
	schedules, err := uc.scheduleRepo.ListSchedules(ctx, professional.ID, dayOfWeek)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedules: %v", err)
		return nil, resultError, fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}
	if len(schedules) == 0 {
		uc.logger.Info("GetAvailableSlots: professional=%s has no schedule on day=%d", professional.ID, dayOfWeek)
		return empty, resultOK, nil
	}

	// 8. Исключения на дату
	exceptions, err := uc.scheduleRepo.ListExceptions(ctx, professional.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get exceptions: %v", err)
		return nil, resultError, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	ranges, blocks, closed, err := effectiveRanges(req.Date, loc, schedules, exceptions)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid schedule data for professional=%s: %v", professional.ID, err)
		return nil, resultError, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if closed {
		uc.logger.Info("GetAvailableSlots: professional=%s is blocked on %s", professional.ID, req.Date.Format(domain.DateFormat))
		return empty, resultOK, nil
	}

	// 9. Генерируем слоты по всем интервалам
	candidates := availability.GenerateSlots(ranges, blockDuration, uc.settings.SlotIntervalMinutes)
	if len(candidates) == 0 {
		return empty, resultOK, nil
	}

	// 10. Занятость специалиста в пределах календарного дня магазина
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	occupations, err := uc.appointmentRepo.ListOccupying(ctx, professional.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, resultError, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 11. Фильтруем пересечения с записями, частичными блокировками и минимальным временем до записи
	available, err := availability.FilterAvailableSlots(candidates, occupations, blocks, availability.Day{
		Date:           req.Date,
		Location:       loc,
		Now:            now,
		MinLeadMinutes: uc.settings.MinLeadTimeMinutes,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to filter slots: %v", err)
		return nil, resultError, fmt.Errorf("%w: failed to filter slots: %v", ErrInternal, err)
	}

	// 12. Форматируем время в часовом поясе магазина
	slots := make([]Slot, len(available))
	for i, s := range available {
		slots[i] = Slot{
			Time:  s.Start.In(loc).Format(domain.TimeFormat),
			Start: s.Start,
			End:   s.End,
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for shop=%s, professional=%s, date=%s",
		len(slots), shop.ID, professional.ID, req.Date.Format(domain.DateFormat))

	return &Response{Date: req.Date, Timezone: loc.String(), Slots: slots}, resultOK, nil
}

// effectiveRanges определяет рабочие интервалы дня с учетом исключений.
// Полная блокировка закрывает день; исключение с особыми часами заменяет все расписания дня.
// В blocks попадают только частичные блокировки, которые потом вычитаются из слотов.
func effectiveRanges(
	date time.Time,
	loc *time.Location,
	schedules []domain.Schedule,
	exceptions []domain.ScheduleException,
) (ranges []domain.TimeRange, blocks []domain.ScheduleException, closed bool, err error) {
	var override *domain.ScheduleException
	blocks = make([]domain.ScheduleException, 0, len(exceptions))

	for i := range exceptions {
		exc := &exceptions[i]
		switch {
		case exc.IsFullDayBlock():
			return nil, nil, true, nil
		case exc.IsCustomHours():
			if override == nil {
				override = exc
			}
		default:
			blocks = append(blocks, *exc)
		}
	}

	if override != nil {
		r, err := toRange(date, *override.StartTime, *override.EndTime, loc)
		if err != nil {
			return nil, nil, false, err
		}
		return []domain.TimeRange{r}, blocks, false, nil
	}

	ranges = make([]domain.TimeRange, 0, len(schedules))
	for _, s := range schedules {
		r, err := toRange(date, s.StartTime, s.EndTime, loc)
		if err != nil {
			return nil, nil, false, err
		}
		ranges = append(ranges, r)
	}

	return ranges, blocks, false, nil
}
