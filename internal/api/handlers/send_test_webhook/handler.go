package send_test_webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	"github.com/m04kA/SMC-TurneroService/internal/integrations/webhook"
	"github.com/m04kA/SMC-TurneroService/internal/service/webhooks"
)

const (
	msgNotConfigured = "el negocio no tiene una URL de webhook configurada"
	msgUnauthorized  = "API key inválida o ausente"
)

// TestWebhookResponse HTTP response model
type TestWebhookResponse struct {
	Success    bool   `json:"success"`
	StatusCode *int   `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	Attempts   int    `json:"attempts"`
}

func fromDeliveryResult(res *webhook.DeliveryResult) *TestWebhookResponse {
	return &TestWebhookResponse{
		Success:    res.Success,
		StatusCode: res.StatusCode,
		Error:      res.Error,
		Attempts:   res.Attempts,
	}
}

type Handler struct {
	service WebhookService
	logger  Logger
}

func NewHandler(service WebhookService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/webhooks/test
// Отправляет webhook.test синхронно; неуспешная доставка не считается ошибкой запроса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shop, ok := middleware.ShopFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.SendTest(r.Context(), shop)
	if err != nil {
		if errors.Is(err, webhooks.ErrWebhookNotConfigured) {
			h.logger.Warn("POST /admin/webhooks/test - Webhook not configured: shop_id=%s", shop.ID)
			handlers.RespondBadRequest(w, msgNotConfigured)
			return
		}
		h.logger.Error("POST /admin/webhooks/test - Failed to send test webhook: shop_id=%s, error=%v", shop.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/webhooks/test - Test webhook sent: shop_id=%s, success=%t, attempts=%d",
		shop.ID, result.Success, result.Attempts)
	handlers.RespondJSON(w, http.StatusOK, fromDeliveryResult(result))
}
