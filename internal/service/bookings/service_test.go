package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Фейки зависимостей

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	cancelReason string
	cancelErr    error
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) GetByCustomer(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, at time.Time) error {
	booking := r.bookings[id]
	booking.Status = status
	switch status {
	case domain.StatusCheckedIn:
		booking.CheckedInAt = &at
	case domain.StatusServed:
		booking.ServedAt = &at
	case domain.StatusNoShow:
		booking.NoShowAt = &at
	}
	return nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string, at time.Time) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	booking := r.bookings[id]
	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &at
	booking.CancellationReason = &reason
	r.cancelReason = reason
	return nil
}

type fakeAllocator struct {
	released [][2]int64
	err      error
}

func (a *fakeAllocator) Release(ctx context.Context, sessionID, slotID int64) error {
	if a.err != nil {
		return a.err
	}
	a.released = append(a.released, [2]int64{sessionID, slotID})
	return nil
}

type fakePublisher struct {
	published []events.BookingEvent
	err       error
}

func (p *fakePublisher) PublishBookingEvent(ctx context.Context, evt events.BookingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evt)
	return nil
}

var queueNow = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func confirmedBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		SessionID:   1,
		SlotID:      2,
		CustomerID:  500,
		BookingCode: "APT-ABC234",
		Status:      domain.StatusConfirmed,
	}
}

func newQueueService(repo *fakeBookingRepo, allocator *fakeAllocator, publisher *fakePublisher) *Service {
	return NewService(repo, allocator, publisher, fakeTxManager{}, fixedClock{now: queueNow}, nopLogger{})
}

func TestTransition_Grid(t *testing.T) {
	tests := []struct {
		from   domain.BookingStatus
		action string
		wantOK bool
	}{
		{domain.StatusConfirmed, models.ActionCheckIn, true},
		{domain.StatusConfirmed, models.ActionNoShow, true},
		{domain.StatusConfirmed, models.ActionServe, false},
		{domain.StatusCheckedIn, models.ActionServe, true},
		{domain.StatusCheckedIn, models.ActionNoShow, true},
		{domain.StatusCheckedIn, models.ActionCheckIn, false},
		{domain.StatusServed, models.ActionCheckIn, false},
		{domain.StatusServed, models.ActionNoShow, false},
		{domain.StatusNoShow, models.ActionCheckIn, false},
		{domain.StatusNoShow, models.ActionServe, false},
		{domain.StatusCancelled, models.ActionCheckIn, false},
		{domain.StatusCancelled, models.ActionServe, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+tt.action, func(t *testing.T) {
			booking := confirmedBooking(1)
			booking.Status = tt.from
			repo := newFakeBookingRepo(booking)
			svc := newQueueService(repo, &fakeAllocator{}, &fakePublisher{})

			resp, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Action: tt.action})
			if !tt.wantOK {
				var transitionErr *TransitionError
				require.True(t, errors.As(err, &transitionErr))
				assert.Equal(t, tt.from, transitionErr.From)
				return
			}

			require.NoError(t, err)
			target, _ := (&models.TransitionRequest{Action: tt.action}).ToTargetStatus()
			assert.Equal(t, string(target), resp.Status)
		})
	}
}

func TestTransition_StampsTimestamp(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	svc := newQueueService(repo, &fakeAllocator{}, &fakePublisher{})

	resp, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Action: models.ActionCheckIn})
	require.NoError(t, err)

	require.NotNil(t, resp.CheckedInAt)
	assert.Equal(t, queueNow.Format(time.RFC3339), *resp.CheckedInAt)
}

func TestTransition_PublishesEvent(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	publisher := &fakePublisher{}
	svc := newQueueService(repo, &fakeAllocator{}, publisher)

	_, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Action: models.ActionCheckIn})
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.EventBookingCheckedIn, publisher.published[0].Type)
	assert.Equal(t, int64(1), publisher.published[0].BookingID)
}

func TestTransition_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := newQueueService(repo, &fakeAllocator{}, publisher)

	resp, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Action: models.ActionCheckIn})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCheckedIn), resp.Status)
}

func TestTransition_UnknownAction(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	svc := newQueueService(repo, &fakeAllocator{}, &fakePublisher{})

	_, err := svc.Transition(context.Background(), 1, &models.TransitionRequest{Action: "teleport"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransition_BookingNotFound(t *testing.T) {
	svc := newQueueService(newFakeBookingRepo(), &fakeAllocator{}, &fakePublisher{})

	_, err := svc.Transition(context.Background(), 42, &models.TransitionRequest{Action: models.ActionCheckIn})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReleasesSlotCapacity(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	allocator := &fakeAllocator{}
	publisher := &fakePublisher{}
	svc := newQueueService(repo, allocator, publisher)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancellationReason: "plans changed"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "plans changed", *resp.CancellationReason)

	// Место возвращено в тот же слот
	require.Len(t, allocator.released, 1)
	assert.Equal(t, [2]int64{1, 2}, allocator.released[0])

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.EventBookingCancelled, publisher.published[0].Type)
}

func TestCancel_CheckedInBookingCanBeCancelled(t *testing.T) {
	booking := confirmedBooking(1)
	booking.Status = domain.StatusCheckedIn
	repo := newFakeBookingRepo(booking)
	svc := newQueueService(repo, &fakeAllocator{}, &fakePublisher{})

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusServed, domain.StatusNoShow, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			booking := confirmedBooking(1)
			booking.Status = status
			repo := newFakeBookingRepo(booking)
			allocator := &fakeAllocator{}
			svc := newQueueService(repo, allocator, &fakePublisher{})

			_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Empty(t, allocator.released)
		})
	}
}

func TestCancel_ReleaseFailureFailsRequest(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1))
	allocator := &fakeAllocator{err: errors.New("connection reset")}
	svc := newQueueService(repo, allocator, &fakePublisher{})

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetUserBookings_FiltersByStatus(t *testing.T) {
	first := confirmedBooking(1)
	second := confirmedBooking(2)
	second.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(first, second)
	svc := newQueueService(repo, &fakeAllocator{}, &fakePublisher{})

	status := string(domain.StatusCancelled)
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		CustomerID: 500,
		Status:     &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := newQueueService(newFakeBookingRepo(), &fakeAllocator{}, &fakePublisher{})

	status := "pending"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		CustomerID: 500,
		Status:     &status,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newQueueService(newFakeBookingRepo(), &fakeAllocator{}, &fakePublisher{})

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
