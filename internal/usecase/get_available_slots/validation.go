package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/availability"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID == uuid.Nil {
		return fmt.Errorf("%w: shopId is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.ProfessionalID == uuid.Nil {
		return fmt.Errorf("%w: professionalId is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateSettings подставляет значения по умолчанию вместо неположительных
func validateSettings(s Settings) Settings {
	def := DefaultSettings()
	if s.SlotIntervalMinutes <= 0 {
		s.SlotIntervalMinutes = def.SlotIntervalMinutes
	}
	if s.MaxBookingDays <= 0 {
		s.MaxBookingDays = def.MaxBookingDays
	}
	if s.MinLeadTimeMinutes < 0 {
		s.MinLeadTimeMinutes = def.MinLeadTimeMinutes
	}
	return s
}

// toRange переводит интервал времени суток в абсолютный интервал на дату
func toRange(date time.Time, start, end types.TimeString, loc *time.Location) (domain.TimeRange, error) {
	from, err := availability.CombineDateAndTime(date, start, loc)
	if err != nil {
		return domain.TimeRange{}, err
	}
	to, err := availability.CombineDateAndTime(date, end, loc)
	if err != nil {
		return domain.TimeRange{}, err
	}
	return domain.TimeRange{Start: from, End: to}, nil
}
