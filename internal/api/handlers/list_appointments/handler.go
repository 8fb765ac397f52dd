package list_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/service/appointments"
)

const (
	msgInvalidDate  = "formato de fecha inválido, se espera YYYY-MM-DD"
	msgUnauthorized = "API key inválida o ausente"
)

type Handler struct {
	service AppointmentService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/admin/appointments?date=YYYY-MM-DD
// Без date возвращается агенда на сегодня в часовом поясе магазина
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.ShopFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().In(shop.Location()).Format(domain.DateFormat)
	}

	list, err := h.service.ListByDay(r.Context(), shop, date)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /admin/appointments - Invalid date: shop_id=%s, date=%q", shop.ID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("GET /admin/appointments - Failed to list appointments: shop_id=%s, error=%v", shop.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/appointments - Agenda retrieved: shop_id=%s, date=%s, count=%d", shop.ID, date, len(list.Appointments))
	handlers.RespondJSON(w, http.StatusOK, list)
}
