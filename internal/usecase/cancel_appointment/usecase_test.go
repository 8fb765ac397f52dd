package cancel_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TurneroService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-TurneroService/pkg/logger"
)

var (
	shopID        = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	appointmentID = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	testNow       = time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)
)

const token = "4e33550a034ff33f49d890bb136b2e4e"

type statusUpdate struct {
	expected, next domain.AppointmentStatus
	at             time.Time
}

type fakeRepo struct {
	details   *domain.AppointmentDetails
	getErr    error
	updateErr error
	updates   []statusUpdate
}

func (r *fakeRepo) GetDetailsByID(_ context.Context, id, shop uuid.UUID) (*domain.AppointmentDetails, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.details == nil || r.details.Appointment.ID != id || r.details.Appointment.ShopID != shop {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return r.details, nil
}

func (r *fakeRepo) GetDetailsByCancellationToken(_ context.Context, tok string) (*domain.AppointmentDetails, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.details == nil || r.details.Appointment.CancellationToken == nil || *r.details.Appointment.CancellationToken != tok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return r.details, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, _, _ uuid.UUID, expected, next domain.AppointmentStatus, at time.Time) error {
	r.updates = append(r.updates, statusUpdate{expected: expected, next: next, at: at})
	return r.updateErr
}

type fakeNotifier struct {
	by      []domain.CancelledBy
	details []*domain.AppointmentDetails
}

func (n *fakeNotifier) NotifyCancelled(details *domain.AppointmentDetails, by domain.CancelledBy) {
	n.details = append(n.details, details)
	n.by = append(n.by, by)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newUseCase(repo *fakeRepo, notifier *fakeNotifier) *UseCase {
	uc := NewUseCase(repo, notifier, logger.NewNop())
	uc.timeProvider = fixedTime{t: testNow}
	return uc
}

func detailsWithStatus(status domain.AppointmentStatus) *domain.AppointmentDetails {
	tok := token
	return &domain.AppointmentDetails{
		Appointment: domain.Appointment{
			ID:                appointmentID,
			ShopID:            shopID,
			Status:            status,
			CancellationToken: &tok,
		},
		Shop: domain.Shop{ID: shopID, Slug: "barberia-centro"},
	}
}

func TestExecute_CustomerCancelsByToken(t *testing.T) {
	repo := &fakeRepo{details: detailsWithStatus(domain.StatusPending)}
	notifier := &fakeNotifier{}

	resp, err := newUseCase(repo, notifier).Execute(context.Background(), &Request{Token: " " + token + " "})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, domain.CancelledByCustomer, resp.CancelledBy)
	assert.Equal(t, testNow, resp.CancelledAt)

	require.Len(t, repo.updates, 1)
	assert.Equal(t, statusUpdate{expected: domain.StatusPending, next: domain.StatusCancelled, at: testNow}, repo.updates[0])

	require.Len(t, notifier.by, 1)
	assert.Equal(t, domain.CancelledByCustomer, notifier.by[0])
	require.NotNil(t, notifier.details[0].Appointment.CancelledAt)
	assert.Equal(t, domain.StatusCancelled, notifier.details[0].Appointment.Status)
}

func TestExecute_AdminCancelsByID(t *testing.T) {
	repo := &fakeRepo{details: detailsWithStatus(domain.StatusConfirmed)}
	notifier := &fakeNotifier{}

	resp, err := newUseCase(repo, notifier).Execute(context.Background(), &Request{ShopID: shopID, AppointmentID: appointmentID})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelledByAdmin, resp.CancelledBy)
	assert.Equal(t, []domain.CancelledBy{domain.CancelledByAdmin}, notifier.by)
}

func TestExecute_AdminOfOtherShopGetsNotFound(t *testing.T) {
	repo := &fakeRepo{details: detailsWithStatus(domain.StatusConfirmed)}

	_, err := newUseCase(repo, &fakeNotifier{}).Execute(context.Background(), &Request{ShopID: uuid.New(), AppointmentID: appointmentID})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_StatusErrors(t *testing.T) {
	tests := []struct {
		status  domain.AppointmentStatus
		wantErr error
	}{
		{status: domain.StatusCancelled, wantErr: ErrAlreadyCancelled},
		{status: domain.StatusCompleted, wantErr: ErrCannotCancel},
		{status: domain.StatusNoShow, wantErr: ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo := &fakeRepo{details: detailsWithStatus(tt.status)}
			notifier := &fakeNotifier{}

			_, err := newUseCase(repo, notifier).Execute(context.Background(), &Request{Token: token})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.updates)
			assert.Empty(t, notifier.by)
		})
	}
}

func TestExecute_UnknownToken(t *testing.T) {
	repo := &fakeRepo{details: detailsWithStatus(domain.StatusPending)}

	_, err := newUseCase(repo, &fakeNotifier{}).Execute(context.Background(), &Request{Token: "nope"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_MissingToken(t *testing.T) {
	_, err := newUseCase(&fakeRepo{}, &fakeNotifier{}).Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConcurrentChange(t *testing.T) {
	repo := &fakeRepo{details: detailsWithStatus(domain.StatusPending), updateErr: appointmentRepo.ErrStatusChanged}
	notifier := &fakeNotifier{}

	_, err := newUseCase(repo, notifier).Execute(context.Background(), &Request{Token: token})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, notifier.by)
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &fakeRepo{getErr: errors.New("timeout")}

	_, err := newUseCase(repo, &fakeNotifier{}).Execute(context.Background(), &Request{Token: token})
	assert.ErrorIs(t, err, ErrInternal)
}
