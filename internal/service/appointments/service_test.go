package appointments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-TurneroService/internal/service/appointments/models"
	"github.com/m04kA/SMC-TurneroService/pkg/logger"
)

type updateCall struct {
	expected, next domain.AppointmentStatus
	at             time.Time
}

type fakeRepo struct {
	mu        sync.Mutex
	details   *domain.AppointmentDetails
	getErr    error
	updateErr error
	updates   []updateCall
	listFrom  time.Time
	listTo    time.Time
	list      []*domain.AppointmentDetails
	completed int64
	sweeps    int
}

func (r *fakeRepo) GetDetailsByID(_ context.Context, id, shopID uuid.UUID) (*domain.AppointmentDetails, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.details == nil || r.details.Appointment.ID != id || r.details.Appointment.ShopID != shopID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *r.details
	return &copied, nil
}

func (r *fakeRepo) ListDetailsByShop(_ context.Context, _ uuid.UUID, from, to time.Time) ([]*domain.AppointmentDetails, error) {
	r.listFrom, r.listTo = from, to
	return r.list, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, _, _ uuid.UUID, expected, next domain.AppointmentStatus, at time.Time) error {
	r.updates = append(r.updates, updateCall{expected: expected, next: next, at: at})
	return r.updateErr
}

func (r *fakeRepo) CompletePast(_ context.Context, _ time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
	return r.completed, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var testNow = time.Date(2026, 1, 20, 15, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, logger.NewNop())
	svc.timeProvider = fixedTime{t: testNow}
	return svc
}

func testShop() domain.Shop {
	return domain.Shop{
		ID:       uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Name:     "Barberia Centro",
		Slug:     "barberia-centro",
		Timezone: "America/Argentina/Buenos_Aires",
	}
}

func testDetails(status domain.AppointmentStatus) *domain.AppointmentDetails {
	shop := testShop()
	start := time.Date(2026, 1, 20, 13, 20, 0, 0, time.UTC) // 10:20 в Буэнос-Айресе
	return &domain.AppointmentDetails{
		Appointment: domain.Appointment{
			ID:             uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
			ShopID:         shop.ID,
			ProfessionalID: uuid.New(),
			StartTime:      start,
			EndTime:        start.Add(40 * time.Minute),
			CustomerName:   "Ana",
			CustomerPhone:  "+5491100000000",
			Status:         status,
		},
		Shop:         shop,
		Professional: domain.Professional{Name: "Juan"},
		Service: &domain.Service{
			ID:    uuid.New(),
			Name:  "Corte",
			Price: decimal.NewNullDecimal(decimal.RequireFromString("8500.50")),
		},
	}
}

func TestGetByID(t *testing.T) {
	d := testDetails(domain.StatusPending)
	svc := newTestService(&fakeRepo{details: d})

	resp, err := svc.GetByID(context.Background(), d.Shop.ID, d.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-20", resp.Date)
	assert.Equal(t, "10:20", resp.Time)
	assert.Equal(t, "2026-01-20T10:20:00-03:00", resp.StartTime)
	assert.Equal(t, "Juan", resp.ProfessionalName)
	require.NotNil(t, resp.ServicePrice)
	assert.Equal(t, "8500.5", resp.ServicePrice.String())
}

func TestGetByID_OtherShopIsNotFound(t *testing.T) {
	d := testDetails(domain.StatusPending)
	svc := newTestService(&fakeRepo{details: d})

	_, err := svc.GetByID(context.Background(), uuid.New(), d.Appointment.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	svc := newTestService(&fakeRepo{getErr: errors.New("connection reset")})

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestListByDay_UsesShopDayBounds(t *testing.T) {
	repo := &fakeRepo{list: []*domain.AppointmentDetails{testDetails(domain.StatusConfirmed)}}
	svc := newTestService(repo)
	shop := testShop()

	resp, err := svc.ListByDay(context.Background(), &shop, "2026-01-20")
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, "2026-01-20", resp.Date)

	assert.True(t, repo.listFrom.Equal(time.Date(2026, 1, 20, 3, 0, 0, 0, time.UTC)))
	assert.True(t, repo.listTo.Equal(time.Date(2026, 1, 21, 3, 0, 0, 0, time.UTC)))
}

func TestListByDay_EmptyIsNotNil(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	shop := testShop()

	resp, err := svc.ListByDay(context.Background(), &shop, "2026-01-20")
	require.NoError(t, err)
	assert.NotNil(t, resp.Appointments)
	assert.Empty(t, resp.Appointments)
}

func TestListByDay_InvalidDate(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	shop := testShop()

	_, err := svc.ListByDay(context.Background(), &shop, "20-01-2026")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		current domain.AppointmentStatus
		next    string
		wantErr error
	}{
		{name: "pending to confirmed", current: domain.StatusPending, next: "confirmed"},
		{name: "confirmed to completed", current: domain.StatusConfirmed, next: "completed"},
		{name: "confirmed to no_show", current: domain.StatusConfirmed, next: "no_show"},
		{name: "pending to completed", current: domain.StatusPending, next: "completed", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", current: domain.StatusCompleted, next: "confirmed", wantErr: ErrInvalidTransition},
		{name: "cancel goes through cancel operation", current: domain.StatusPending, next: "cancelled", wantErr: ErrCancelNotAllowed},
		{name: "unknown status", current: domain.StatusPending, next: "confirmada", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDetails(tt.current)
			repo := &fakeRepo{details: d}
			svc := newTestService(repo)

			resp, err := svc.UpdateStatus(context.Background(), d.Shop.ID, d.Appointment.ID, &models.UpdateStatusRequest{Status: tt.next})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.updates)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.next, resp.Status)
			require.Len(t, repo.updates, 1)
			assert.Equal(t, tt.current, repo.updates[0].expected)
			assert.Equal(t, domain.AppointmentStatus(tt.next), repo.updates[0].next)
			assert.Equal(t, testNow, repo.updates[0].at)
		})
	}
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	d := testDetails(domain.StatusPending)
	svc := newTestService(&fakeRepo{details: d, updateErr: appointmentRepo.ErrStatusChanged})

	_, err := svc.UpdateStatus(context.Background(), d.Shop.ID, d.Appointment.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrStatusChanged)
}

func TestCompletePast(t *testing.T) {
	repo := &fakeRepo{completed: 4}
	svc := newTestService(repo)

	n, err := svc.CompletePast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestRunSweeper_StopsOnCancel(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.sweeps == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
