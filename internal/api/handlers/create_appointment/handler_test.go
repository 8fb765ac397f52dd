package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/internal/api/middleware"
	"github.com/m04kA/SMC-TurneroService/internal/domain"
	createAppointment "github.com/m04kA/SMC-TurneroService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-TurneroService/pkg/logger"
)

type fakeUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

var (
	shopID         = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	serviceID      = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	professionalID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	appointmentID  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

func body(withShop bool) string {
	shop := ""
	if withShop {
		shop = fmt.Sprintf(`"shop_id":%q,`, shopID)
	}
	return fmt.Sprintf(`{%s"professional_id":%q,"service_id":%q,"start_time":"2026-01-20T10:20:00-03:00",
		"customer_name":"Ana Pérez","customer_phone":"+54 11 5555-0000","customer_email":"ana@example.com"}`,
		shop, professionalID, serviceID)
}

func successResponse() *createAppointment.Response {
	email := "ana@example.com"
	start := time.Date(2026, 1, 20, 13, 20, 0, 0, time.UTC)
	return &createAppointment.Response{
		ID:                appointmentID,
		Status:            string(domain.StatusPending),
		StartTime:         start,
		EndTime:           start.Add(40 * time.Minute),
		Timezone:          "America/Argentina/Buenos_Aires",
		CancellationToken: "tok",
		CancellationURL:   "https://turnos.example.com/widget/barberia/cancelar/tok",
		CustomerName:      "Ana Pérez",
		CustomerPhone:     "+54 11 5555-0000",
		CustomerEmail:     &email,
		ProfessionalID:    professionalID,
		ProfessionalName:  "Juan",
		ServiceID:         serviceID,
		ServiceName:       "Corte",
	}
}

func TestHandle_WidgetSuccess(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse()}
	h := NewHandler(uc, createAppointment.SourceWidget, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/public/appointments", strings.NewReader(body(true))))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, appointmentID.String(), resp.Appointment.ID)
	assert.Equal(t, "2026-01-20T10:20:00-03:00", resp.Appointment.StartTime)
	assert.Equal(t, "2026-01-20T11:00:00-03:00", resp.Appointment.EndTime)
	assert.Equal(t, "tok", resp.Appointment.CancellationToken)
	assert.Equal(t, "Juan", resp.Professional.Name)

	require.NotNil(t, uc.got)
	assert.Equal(t, createAppointment.SourceWidget, uc.got.Source)
	assert.Equal(t, shopID, uc.got.ShopID)
	assert.True(t, uc.got.StartTime.Equal(time.Date(2026, 1, 20, 13, 20, 0, 0, time.UTC)))
}

func TestHandle_ExternalUsesAuthenticatedShop(t *testing.T) {
	uc := &fakeUseCase{resp: successResponse()}
	h := NewHandler(uc, createAppointment.SourceExternal, logger.NewNop())

	other := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/appointments/external", strings.NewReader(body(true)))
	req = req.WithContext(middleware.WithShop(req.Context(), &domain.Shop{ID: other}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, other, uc.got.ShopID, "shop_id in the body must be ignored")
	assert.Equal(t, createAppointment.SourceExternal, uc.got.Source)
}

func TestHandle_ExternalWithoutShop(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, createAppointment.SourceExternal, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body(false))))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), codeInvalidAPIKey)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "malformed json", body: `{`, wantCode: codeInvalidInput},
		{name: "missing shop", body: body(false), wantCode: codeMissingFields},
		{name: "missing fields", body: fmt.Sprintf(`{"shop_id":%q}`, shopID), wantCode: codeMissingFields},
		{
			name: "bad start time",
			body: fmt.Sprintf(`{"shop_id":%q,"professional_id":%q,"service_id":%q,"start_time":"20/01/2026 10:20","customer_name":"Ana","customer_phone":"1"}`,
				shopID, professionalID, serviceID),
			wantCode: codeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			h := NewHandler(uc, createAppointment.SourceWidget, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{err: createAppointment.ErrSlotNotAvailable, wantStatus: http.StatusConflict, wantCode: codeSlotUnavailable},
		{err: createAppointment.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: codeInvalidInput},
		{err: createAppointment.ErrOutOfWindow, wantStatus: http.StatusBadRequest, wantCode: codeInvalidDate},
		{err: createAppointment.ErrShopNotFound, wantStatus: http.StatusNotFound, wantCode: codeShopNotFound},
		{err: createAppointment.ErrServiceNotFound, wantStatus: http.StatusNotFound, wantCode: codeServiceNotFound},
		{err: createAppointment.ErrProfessionalNotFound, wantStatus: http.StatusNotFound, wantCode: codeProfessionalNotFound},
		{err: createAppointment.ErrProfessionalInactive, wantStatus: http.StatusNotFound, wantCode: codeProfessionalNotFound},
		{err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: codeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, createAppointment.SourceWidget, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body(true))))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp FailureResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}
