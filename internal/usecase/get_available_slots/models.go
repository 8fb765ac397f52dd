package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// Settings параметры расчета доступности
type Settings struct {
	SlotIntervalMinutes int // шаг сетки слотов
	MaxBookingDays      int // окно бронирования в днях
	MinLeadTimeMinutes  int // минимальное время до записи на сегодня
}

// DefaultSettings возвращает параметры по умолчанию
func DefaultSettings() Settings {
	return Settings{
		SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
		MaxBookingDays:      domain.DefaultMaxBookingDays,
		MinLeadTimeMinutes:  domain.DefaultMinLeadTimeMinutes,
	}
}

// Request модель запроса на получение доступных слотов
type Request struct {
	ShopID         uuid.UUID // ID магазина (тенант)
	ServiceID      uuid.UUID // ID услуги
	ProfessionalID uuid.UUID // ID специалиста
	Date           time.Time // Календарная дата (используются только год, месяц, день)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date     time.Time // Дата, на которую запрашивались слоты
	Timezone string    // Часовой пояс магазина
	Slots    []Slot    // Слоты в хронологическом порядке
}

// Slot модель свободного слота
type Slot struct {
	Time  string    // Время начала в часовом поясе магазина, "HH:MM"
	Start time.Time // Начало (UTC)
	End   time.Time // Конец с учетом буфера (UTC)
}

// Times возвращает время начала всех слотов в формате HH:MM
func (r *Response) Times() []string {
	times := make([]string, len(r.Slots))
	for i, s := range r.Slots {
		times[i] = s.Time
	}
	return times
}

// Contains проверяет, что среди слотов есть слот, начинающийся в start
func (r *Response) Contains(start time.Time) bool {
	for _, s := range r.Slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}
