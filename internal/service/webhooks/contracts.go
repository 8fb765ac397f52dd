package webhooks

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/integrations/webhook"
)

// WebhookClient интерфейс клиента доставки вебхуков
type WebhookClient interface {
	Send(ctx context.Context, url string, payload interface{}, secret string) *webhook.DeliveryResult
}

// DeliveryLogRepository интерфейс журнала доставки
type DeliveryLogRepository interface {
	Create(ctx context.Context, delivery *domain.WebhookDelivery) error
}

// Metrics интерфейс метрик доставки
type Metrics interface {
	ObserveWebhookDelivery(event string, success bool, attempts int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
