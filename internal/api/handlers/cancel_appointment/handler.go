package cancel_appointment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	cancelAppointment "github.com/m04kA/SMC-TurneroService/internal/usecase/cancel_appointment"
)

const (
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgMissingToken         = "falta el token de cancelación"
	msgInvalidToken         = "token de cancelación inválido"
	msgInvalidAppointmentID = "ID de turno inválido"
	msgNotFound             = "turno no encontrado"
	msgAlreadyCancelled     = "el turno ya fue cancelado"
	msgCannotCancel         = "el turno no puede ser cancelado"
	msgUnauthorized         = "API key inválida o ausente"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleByToken POST /api/v1/appointments/cancel
// Клиент отменяет запись по токену из ссылки
func (h *Handler) HandleByToken(w http.ResponseWriter, r *http.Request) {
	var req CancelByTokenRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.Token) == "" {
		h.logger.Warn("POST /appointments/cancel - Missing token")
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	h.execute(w, r, "POST /appointments/cancel", &cancelAppointment.Request{Token: req.Token}, msgInvalidToken)
}

// HandleByAdmin POST /api/v1/admin/appointments/{appointmentId}/cancel
// Администратор отменяет запись своего магазина
func (h *Handler) HandleByAdmin(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.ShopFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Извлекаем appointmentId из URL
	appointmentID, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		h.logger.Warn("POST /admin/appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	req := &cancelAppointment.Request{ShopID: shop.ID, AppointmentID: appointmentID}
	h.execute(w, r, "POST /admin/appointments/{id}/cancel", req, msgNotFound)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *cancelAppointment.Request, msgMissing string) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrAppointmentNotFound):
			h.logger.Warn("%s - Appointment not found: shop_id=%s, appointment_id=%s", route, req.ShopID, req.AppointmentID)
			handlers.RespondNotFound(w, msgMissing)

		case errors.Is(err, cancelAppointment.ErrAlreadyCancelled):
			h.logger.Warn("%s - Appointment already cancelled: appointment_id=%s", route, req.AppointmentID)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, cancelAppointment.ErrCannotCancel):
			h.logger.Warn("%s - Appointment cannot be cancelled: appointment_id=%s", route, req.AppointmentID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("%s - Failed to cancel appointment: appointment_id=%s, error=%v", route, req.AppointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Appointment cancelled: appointment_id=%s, cancelled_by=%s", route, result.ID, result.CancelledBy)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
