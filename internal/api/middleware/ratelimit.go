package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	"github.com/m04kA/SMC-TurneroService/pkg/ratelimit"
)

const (
	codeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	msgRateLimitExceeded  = "demasiadas solicitudes, intente más tarde"
)

// RateLimit ограничивает запросы одного магазина. Должен стоять после APIKeyAuth.
// При недоступном хранилище лимитера запрос пропускается, если failOpen, иначе 503.
func RateLimit(limiter ratelimit.Limiter, failOpen bool, m RateLimitMetrics, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shop, ok := ShopFromContext(r.Context())
			if !ok {
				handlers.RespondErrorWithCode(w, http.StatusUnauthorized, msgInvalidAPIKey, codeInvalidAPIKey)
				return
			}

			allowed, err := limiter.Allow(r.Context(), shop.ID.String())
			if err != nil {
				if !failOpen {
					logger.Error("%s %s - Rate limiter unavailable, rejecting: shop_id=%s, error=%v", r.Method, r.URL.Path, shop.ID, err)
					handlers.RespondError(w, http.StatusServiceUnavailable, "servicio no disponible temporalmente")
					return
				}
				logger.Warn("%s %s - Rate limiter unavailable, allowing: shop_id=%s, error=%v", r.Method, r.URL.Path, shop.ID, err)
				allowed = true
			}

			if !allowed {
				m.ObserveRateLimitRejection(routeTemplate(r))
				logger.Warn("%s %s - Rate limit exceeded: shop_id=%s", r.Method, r.URL.Path, shop.ID)
				handlers.RespondErrorWithCode(w, http.StatusTooManyRequests, msgRateLimitExceeded, codeRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
