package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-TurneroService/internal/usecase/get_available_slots"
)

const (
	msgMissingParams        = "faltan parámetros requeridos: date, serviceId, professionalId, shopId"
	msgInvalidDate          = "formato de fecha inválido, se espera YYYY-MM-DD"
	msgInvalidID            = "identificador inválido"
	msgOutOfWindow          = "la fecha está fuera del rango permitido para reservar"
	msgShopNotFound         = "negocio no encontrado"
	msgServiceNotFound      = "servicio no encontrado"
	msgProfessionalNotFound = "profesional no encontrado"
	msgProfessionalInactive = "el profesional no está disponible"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (YYYY-MM-DD), serviceId, professionalId, shopId; все обязательны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Разбираем query параметры
	useCaseReq, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid params: %v", err)
		switch {
		case errors.Is(err, errMissingParams):
			handlers.RespondBadRequest(w, msgMissingParams)
		case errors.Is(err, errInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)
		default:
			handlers.RespondBadRequest(w, msgInvalidID)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgMissingParams)

		case errors.Is(err, getAvailableSlots.ErrOutOfWindow):
			h.logger.Warn("GET /availability - Date out of booking window: shop_id=%s, date=%s",
				useCaseReq.ShopID, r.URL.Query().Get("date"))
			handlers.RespondBadRequest(w, msgOutOfWindow)

		case errors.Is(err, getAvailableSlots.ErrShopNotFound):
			h.logger.Warn("GET /availability - Shop not found: shop_id=%s", useCaseReq.ShopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: shop_id=%s, service_id=%s",
				useCaseReq.ShopID, useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET /availability - Professional not found: shop_id=%s, professional_id=%s",
				useCaseReq.ShopID, useCaseReq.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getAvailableSlots.ErrProfessionalInactive):
			h.logger.Warn("GET /availability - Professional inactive: professional_id=%s", useCaseReq.ProfessionalID)
			handlers.RespondBadRequest(w, msgProfessionalInactive)

		default:
			h.logger.Error("GET /availability - Failed to get slots: shop_id=%s, professional_id=%s, error=%v",
				useCaseReq.ShopID, useCaseReq.ProfessionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /availability - Slots retrieved: shop_id=%s, professional_id=%s, date=%s, count=%d",
		useCaseReq.ShopID, useCaseReq.ProfessionalID, response.Date, response.Count)
	handlers.RespondJSON(w, http.StatusOK, response)
}
