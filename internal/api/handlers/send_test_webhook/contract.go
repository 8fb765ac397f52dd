package send_test_webhook

import (
	"context"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/integrations/webhook"
)

type WebhookService interface {
	SendTest(ctx context.Context, shop *domain.Shop) (*webhook.DeliveryResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
