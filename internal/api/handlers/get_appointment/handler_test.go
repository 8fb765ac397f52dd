package get_appointment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/service/appointments"
	"github.com/m04kA/SMC-TurneroService/internal/service/appointments/models"
	"github.com/m04kA/SMC-TurneroService/pkg/logger"
)

type fakeService struct {
	gotShop uuid.UUID
	err     error
}

func (f *fakeService) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.AppointmentResponse, error) {
	f.gotShop = shopID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id.String(), Status: "pending"}, nil
}

var shopID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func request(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	return req.WithContext(middleware.WithShop(req.Context(), &domain.Shop{ID: shopID}))
}

func TestHandle(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "found", id: id, wantStatus: http.StatusOK},
		{name: "not found", id: id, err: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "storage error", id: id, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
		{name: "bad id", id: "abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, request(tt.id))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, shopID, svc.gotShop)
				assert.Contains(t, rec.Body.String(), id)
			}
		})
	}
}

func TestHandle_NoShop(t *testing.T) {
	h := NewHandler(&fakeService{}, logger.NewNop())
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
