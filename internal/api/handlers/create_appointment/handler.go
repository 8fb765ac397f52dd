package create_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-TurneroService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody   = "cuerpo de la solicitud inválido"
	msgMissingFields        = "faltan campos requeridos"
	msgInvalidField         = "campo con formato inválido"
	msgInvalidInput         = "datos del turno inválidos"
	msgShopNotFound         = "negocio no encontrado"
	msgServiceNotFound      = "servicio no encontrado"
	msgProfessionalNotFound = "profesional no encontrado"
	msgOutOfWindow          = "la fecha está fuera del rango permitido para reservar"
	msgSlotUnavailable      = "el horario elegido no está disponible"
	msgInternalError        = "error interno del servidor"
	msgUnauthorized         = "API key inválida o ausente"
)

const (
	codeMissingFields        = "MISSING_FIELDS"
	codeInvalidInput         = "INVALID_INPUT"
	codeShopNotFound         = "SHOP_NOT_FOUND"
	codeServiceNotFound      = "SERVICE_NOT_FOUND"
	codeProfessionalNotFound = "PROFESSIONAL_NOT_FOUND"
	codeInvalidDate          = "INVALID_DATE"
	codeSlotUnavailable      = "SLOT_UNAVAILABLE"
	codeInternalError        = "INTERNAL_ERROR"
	codeInvalidAPIKey        = "INVALID_API_KEY"
)

var (
	errMissingFields = errors.New("missing required fields")
	errInvalidField  = errors.New("invalid field")
)

type Handler struct {
	useCase CreateAppointmentUseCase
	source  createAppointment.Source
	logger  Logger
}

// NewHandler создает обработчик для виджета или для внешнего API, в зависимости от source
func NewHandler(useCase CreateAppointmentUseCase, source createAppointment.Source, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		source:  source,
		logger:  logger,
	}
}

// Handle POST /api/public/appointments и POST /api/v1/admin/appointments/external
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	route := h.route()

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST %s - Invalid request body: %v", route, err)
		respondFailure(w, http.StatusBadRequest, msgInvalidRequestBody, codeInvalidInput)
		return
	}

	// Определяем магазин: из API ключа или из тела запроса виджета
	shopID, ok := h.resolveShop(r, &req)
	if !ok {
		if h.source == createAppointment.SourceExternal {
			respondFailure(w, http.StatusUnauthorized, msgUnauthorized, codeInvalidAPIKey)
			return
		}
		h.logger.Warn("POST %s - Missing or invalid shop_id", route)
		respondFailure(w, http.StatusBadRequest, msgMissingFields, codeMissingFields)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.source, shopID)
	if err != nil {
		h.logger.Warn("POST %s - Failed to parse request: shop_id=%s, error=%v", route, shopID, err)
		if errors.Is(err, errMissingFields) {
			respondFailure(w, http.StatusBadRequest, msgMissingFields, codeMissingFields)
		} else {
			respondFailure(w, http.StatusBadRequest, msgInvalidField, codeInvalidInput)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST %s - Slot not available: shop_id=%s, professional_id=%s, start=%s",
				route, shopID, useCaseReq.ProfessionalID, useCaseReq.StartTime)
			respondFailure(w, http.StatusConflict, msgSlotUnavailable, codeSlotUnavailable)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST %s - Invalid input: shop_id=%s, error=%v", route, shopID, err)
			respondFailure(w, http.StatusBadRequest, msgInvalidInput, codeInvalidInput)

		case errors.Is(err, createAppointment.ErrOutOfWindow):
			h.logger.Warn("POST %s - Date out of booking window: shop_id=%s", route, shopID)
			respondFailure(w, http.StatusBadRequest, msgOutOfWindow, codeInvalidDate)

		case errors.Is(err, createAppointment.ErrShopNotFound):
			h.logger.Warn("POST %s - Shop not found: shop_id=%s", route, shopID)
			respondFailure(w, http.StatusNotFound, msgShopNotFound, codeShopNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST %s - Service not found: shop_id=%s, service_id=%s", route, shopID, useCaseReq.ServiceID)
			respondFailure(w, http.StatusNotFound, msgServiceNotFound, codeServiceNotFound)

		case errors.Is(err, createAppointment.ErrProfessionalNotFound),
			errors.Is(err, createAppointment.ErrProfessionalInactive):
			h.logger.Warn("POST %s - Professional not available: shop_id=%s, professional_id=%s, error=%v",
				route, shopID, useCaseReq.ProfessionalID, err)
			respondFailure(w, http.StatusNotFound, msgProfessionalNotFound, codeProfessionalNotFound)

		default:
			h.logger.Error("POST %s - Failed to create appointment: shop_id=%s, error=%v", route, shopID, err)
			respondFailure(w, http.StatusInternalServerError, msgInternalError, codeInternalError)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST %s - Appointment created: appointment_id=%s, shop_id=%s, professional_id=%s",
		route, result.ID, shopID, result.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) resolveShop(r *http.Request, req *CreateAppointmentRequest) (uuid.UUID, bool) {
	if h.source == createAppointment.SourceExternal {
		shop, ok := middleware.ShopFromContext(r.Context())
		if !ok {
			return uuid.Nil, false
		}
		return shop.ID, true
	}

	id, err := uuid.Parse(req.ShopID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) route() string {
	if h.source == createAppointment.SourceExternal {
		return "/admin/appointments/external"
	}
	return "/public/appointments"
}

func respondFailure(w http.ResponseWriter, status int, message, code string) {
	handlers.RespondJSON(w, status, FailureResponse{Success: false, Error: message, Code: code})
}
