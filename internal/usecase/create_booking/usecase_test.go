package create_booking

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
)

// Фейки зависимостей

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeSessionRepo struct {
	session *domain.Session
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	if r.session == nil || r.session.ID != id {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return r.session, nil
}

// fakeAllocator потокобезопасный аллокатор с жестким потолком
type fakeAllocator struct {
	mu      sync.Mutex
	ceiling int
	booked  int

	reserveErr error
	released   int
}

func (a *fakeAllocator) TryReserve(ctx context.Context, sessionID, slotID int64) (*sessionRepo.Reservation, error) {
	if a.reserveErr != nil {
		return nil, a.reserveErr
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.booked >= a.ceiling {
		return nil, sessionRepo.ErrSlotFull
	}
	a.booked++
	return &sessionRepo.Reservation{Token: uuid.NewString(), SessionID: sessionID, SlotID: slotID}, nil
}

func (a *fakeAllocator) Release(ctx context.Context, sessionID, slotID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.booked > 0 {
		a.booked--
	}
	a.released++
	return nil
}

type fakeBookingRepo struct {
	mu     sync.Mutex
	nextID int64
	codes  map[string]bool

	failures  int // первые failures вставок падают с ErrDuplicateCode
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{codes: make(map[string]bool)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.failures > 0 {
		r.failures--
		return nil, bookingRepo.ErrDuplicateCode
	}
	if r.codes[booking.BookingCode] {
		return nil, bookingRepo.ErrDuplicateCode
	}
	r.codes[booking.BookingCode] = true

	r.nextID++
	created := *booking
	created.ID = r.nextID
	return &created, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []events.BookingEvent
}

func (p *fakePublisher) PublishBookingEvent(ctx context.Context, evt events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, evt)
	return nil
}

var (
	bookingNow  = time.Date(2026, 9, 13, 12, 0, 0, 0, time.UTC)
	serviceDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
)

func bookableSession() *domain.Session {
	return &domain.Session{
		ID:              1,
		BranchID:        1,
		CounterID:       10,
		InsuranceTypeID: 100,
		ServiceDate:     serviceDate,
		Status:          domain.SessionScheduled,
		Slots: []domain.Slot{
			{
				ID:        2,
				SessionID: 1,
				StartAt:   time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
				EndAt:     time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
				Capacity:  2,
				Overbook:  1,
			},
		},
	}
}

func newTestUseCase(session *domain.Session, allocator *fakeAllocator, bookings *fakeBookingRepo, publisher *fakePublisher) *UseCase {
	uc := NewUseCase(&fakeSessionRepo{session: session}, allocator, bookings, publisher, nopLogger{})
	uc.timeProvider = fixedClock{now: bookingNow}
	return uc
}

func validRequest() *Request {
	return &Request{CustomerID: 500, SessionID: 1, SlotID: 2}
}

func TestExecute_Success(t *testing.T) {
	allocator := &fakeAllocator{ceiling: 3}
	publisher := &fakePublisher{}
	uc := newTestUseCase(bookableSession(), allocator, newFakeBookingRepo(), publisher)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(500), resp.CustomerID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "2026-09-14T09:00:00Z", resp.SlotStart)
	assert.Equal(t, "2026-09-14T09:30:00Z", resp.SlotEnd)
	assert.Regexp(t, regexp.MustCompile(`^APT-[23456789ABCDEFGHJKMNPQRSTUVWXYZ]{6}$`), resp.BookingCode)

	assert.Equal(t, 1, allocator.booked)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.EventBookingCreated, publisher.published[0].Type)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(bookableSession(), &fakeAllocator{ceiling: 1}, newFakeBookingRepo(), &fakePublisher{})

	for _, req := range []*Request{
		{CustomerID: 0, SessionID: 1, SlotID: 2},
		{CustomerID: 500, SessionID: 0, SlotID: 2},
		{CustomerID: 500, SessionID: 1, SlotID: 0},
	} {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExecute_SessionNotFound(t *testing.T) {
	uc := newTestUseCase(nil, &fakeAllocator{ceiling: 1}, newFakeBookingRepo(), &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExecute_SessionOnHoliday(t *testing.T) {
	session := bookableSession()
	session.Holidays = true
	uc := newTestUseCase(session, &fakeAllocator{ceiling: 1}, newFakeBookingRepo(), &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSessionOnHoliday)
}

func TestExecute_SessionInPast(t *testing.T) {
	session := bookableSession()
	session.ServiceDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	uc := newTestUseCase(session, &fakeAllocator{ceiling: 1}, newFakeBookingRepo(), &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSessionInPast)
}

func TestExecute_SlotNotInSession(t *testing.T) {
	uc := newTestUseCase(bookableSession(), &fakeAllocator{ceiling: 1}, newFakeBookingRepo(), &fakePublisher{})

	req := validRequest()
	req.SlotID = 99

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_SlotFull(t *testing.T) {
	allocator := &fakeAllocator{ceiling: 1, booked: 1}
	uc := newTestUseCase(bookableSession(), allocator, newFakeBookingRepo(), &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecute_CodeCollisionRetries(t *testing.T) {
	allocator := &fakeAllocator{ceiling: 1}
	bookings := newFakeBookingRepo()
	bookings.failures = 2
	uc := newTestUseCase(bookableSession(), allocator, bookings, &fakePublisher{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.BookingCode)
	assert.Equal(t, 1, allocator.booked)
}

func TestExecute_CodeAttemptsExhausted(t *testing.T) {
	allocator := &fakeAllocator{ceiling: 1}
	bookings := newFakeBookingRepo()
	bookings.failures = maxCodeAttempts
	uc := newTestUseCase(bookableSession(), allocator, bookings, &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)

	// Место возвращено компенсирующим Release
	assert.Equal(t, 0, allocator.booked)
	assert.Equal(t, 1, allocator.released)
}

func TestExecute_PersistFailureReleasesReservation(t *testing.T) {
	allocator := &fakeAllocator{ceiling: 1}
	bookings := newFakeBookingRepo()
	bookings.createErr = errors.New("connection reset")
	uc := newTestUseCase(bookableSession(), allocator, bookings, &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, allocator.booked)
	assert.Equal(t, 1, allocator.released)
}

// Гонка за слот: побеждает ровно ceiling клиентов, остальные получают
// ErrSlotFull, счетчик booked не уходит за потолок
func TestExecute_ConcurrentRequestsRespectCeiling(t *testing.T) {
	const clients = 20
	const ceiling = 3

	allocator := &fakeAllocator{ceiling: ceiling}
	uc := newTestUseCase(bookableSession(), allocator, newFakeBookingRepo(), &fakePublisher{})

	var wg sync.WaitGroup
	results := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{
				CustomerID: customerID,
				SessionID:  1,
				SlotID:     2,
			})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var won, full int
	for err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, ceiling, won)
	assert.Equal(t, clients-ceiling, full)
	assert.Equal(t, ceiling, allocator.booked)
}

func TestGenerateBookingCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	pattern := regexp.MustCompile(`^APT-[23456789ABCDEFGHJKMNPQRSTUVWXYZ]{6}$`)

	for i := 0; i < 100; i++ {
		code, err := generateBookingCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}

	// Коды из 31^6 вариантов: сто подряд совпадений крайне маловероятны
	assert.Greater(t, len(seen), 95)
}
