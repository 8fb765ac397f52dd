package middleware

import (
	"context"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
)

// ShopRepository находит магазин по API ключу
type ShopRepository interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Shop, error)
}

// RateLimitMetrics учитывает отклоненные лимитером запросы
type RateLimitMetrics interface {
	ObserveRateLimitRejection(route string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
