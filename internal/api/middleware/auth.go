package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TurneroService/internal/api/handlers"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	shopRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/shop"
)

const (
	codeInvalidAPIKey = "INVALID_API_KEY"
	msgInvalidAPIKey  = "API key inválida o ausente"
	bearerPrefix      = "Bearer "
)

type shopKey struct{}

// WithShop кладет аутентифицированный магазин в контекст
func WithShop(ctx context.Context, shop *domain.Shop) context.Context {
	return context.WithValue(ctx, shopKey{}, shop)
}

// ShopFromContext возвращает магазин, определенный APIKeyAuth
func ShopFromContext(ctx context.Context) (*domain.Shop, bool) {
	shop, ok := ctx.Value(shopKey{}).(*domain.Shop)
	return shop, ok && shop != nil
}

// APIKeyAuth определяет магазин по заголовку "Authorization: Bearer <api key>".
// Неизвестный или отсутствующий ключ дает 401.
func APIKeyAuth(repo ShopRepository, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := bearerToken(r)
			if apiKey == "" {
				logger.Warn("%s %s - Missing API key", r.Method, r.URL.Path)
				handlers.RespondErrorWithCode(w, http.StatusUnauthorized, msgInvalidAPIKey, codeInvalidAPIKey)
				return
			}

			shop, err := repo.GetByAPIKey(r.Context(), apiKey)
			if err != nil {
				if errors.Is(err, shopRepo.ErrShopNotFound) {
					logger.Warn("%s %s - Unknown API key", r.Method, r.URL.Path)
					handlers.RespondErrorWithCode(w, http.StatusUnauthorized, msgInvalidAPIKey, codeInvalidAPIKey)
					return
				}
				logger.Error("%s %s - Failed to resolve API key: %v", r.Method, r.URL.Path, err)
				handlers.RespondInternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithShop(r.Context(), shop)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
