package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	shopRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/shop"
	"github.com/m04kA/SMC-TurneroService/pkg/logger"
	"github.com/m04kA/SMC-TurneroService/pkg/metrics"
	"github.com/m04kA/SMC-TurneroService/pkg/ratelimit"
)

type fakeShopRepo struct {
	shops map[string]*domain.Shop
	err   error
}

func (f *fakeShopRepo) GetByAPIKey(_ context.Context, apiKey string) (*domain.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	shop, ok := f.shops[apiKey]
	if !ok {
		return nil, shopRepo.ErrShopNotFound
	}
	return shop, nil
}

type fakeRateMetrics struct {
	routes []string
}

func (f *fakeRateMetrics) ObserveRateLimitRejection(route string) {
	f.routes = append(f.routes, route)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, ratelimit.ErrBackend
}

var testShop = &domain.Shop{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Barbería Centro"}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop, ok := ShopFromContext(r.Context())
		if ok {
			w.Header().Set("X-Shop", shop.ID.String())
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	repo := &fakeShopRepo{shops: map[string]*domain.Shop{"key-123": testShop}}
	h := APIKeyAuth(repo, logger.NewNop())(okHandler(t))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid key", header: "Bearer key-123", wantStatus: http.StatusNoContent},
		{name: "case insensitive scheme", header: "bearer key-123", wantStatus: http.StatusNoContent},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic key-123", wantStatus: http.StatusUnauthorized},
		{name: "unknown key", header: "Bearer other", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, testShop.ID.String(), rec.Header().Get("X-Shop"))
			} else {
				assert.Contains(t, rec.Body.String(), codeInvalidAPIKey)
			}
		})
	}
}

func TestAPIKeyAuth_RepositoryError(t *testing.T) {
	repo := &fakeShopRepo{err: errors.New("connection refused")}
	h := APIKeyAuth(repo, logger.NewNop())(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer key-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	m := &fakeRateMetrics{}
	limiter := ratelimit.NewMemoryLimiter(2, time.Hour)
	h := RateLimit(limiter, true, m, logger.NewNop())(okHandler(t))

	serve := func(shop *domain.Shop) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/appointments/external", nil)
		req = req.WithContext(WithShop(req.Context(), shop))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, serve(testShop))
	assert.Equal(t, http.StatusNoContent, serve(testShop))
	assert.Equal(t, http.StatusTooManyRequests, serve(testShop))
	assert.Len(t, m.routes, 1)

	// Лимит считается отдельно для каждого магазина
	other := &domain.Shop{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222")}
	assert.Equal(t, http.StatusNoContent, serve(other))
}

func TestRateLimit_BackendFailure(t *testing.T) {
	for _, tc := range []struct {
		failOpen   bool
		wantStatus int
	}{
		{failOpen: true, wantStatus: http.StatusNoContent},
		{failOpen: false, wantStatus: http.StatusServiceUnavailable},
	} {
		h := RateLimit(failingLimiter{}, tc.failOpen, &fakeRateMetrics{}, logger.NewNop())(okHandler(t))
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithShop(req.Context(), testShop))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.wantStatus, rec.Code, "failOpen=%v", tc.failOpen)
	}
}

func TestRateLimit_RequiresShop(t *testing.T) {
	h := RateLimit(ratelimit.NewMemoryLimiter(1, time.Minute), true, &fakeRateMetrics{}, logger.NewNop())(okHandler(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), "test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/admin/appointments/{appointmentId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments/"+uuid.NewString(), nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	counter, err := m.HTTPRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/api/v1/admin/appointments/{appointmentId}", "404")
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	h := MetricsMiddleware(nil)(okHandler(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
