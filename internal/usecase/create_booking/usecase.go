package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/session"
)

// Число попыток вставки при коллизии кода бронирования
const maxCodeAttempts = 5

// UseCase use case создания бронирования
//
// Место в слоте занимается атомарным условным UPDATE до вставки
// бронирования; транзакция здесь не нужна. Если вставка не удалась,
// место возвращается компенсирующим Release - клиент никогда не
// получает ошибку с занятым местом.
type UseCase struct {
	sessionRepo  SessionRepository
	allocator    CapacityAllocator
	bookingRepo  BookingRepository
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	allocator CapacityAllocator,
	bookingRepo BookingRepository,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		allocator:    allocator,
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, session=%d, slot=%d",
		req.CustomerID, req.SessionID, req.SlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем сессию со слотами
	session, err := uc.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("CreateBooking: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("CreateBooking: failed to get session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}

	// 3. Сессия должна принимать бронирования
	if err := validateSessionBookable(session, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: session id=%d not bookable: %v", req.SessionID, err)
		return nil, err
	}

	// 4. Слот должен принадлежать сессии
	slot := session.SlotByID(req.SlotID)
	if slot == nil {
		uc.logger.Warn("CreateBooking: slot id=%d not found in session id=%d", req.SlotID, req.SessionID)
		return nil, ErrSlotNotFound
	}

	// 5. Атомарно занимаем место в слоте
	reservation, err := uc.allocator.TryReserve(ctx, req.SessionID, req.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrSlotFull):
			uc.logger.Warn("CreateBooking: slot id=%d is full", req.SlotID)
			return nil, ErrSlotFull
		case errors.Is(err, sessionRepo.ErrSlotNotFound):
			uc.logger.Warn("CreateBooking: slot id=%d disappeared from session id=%d", req.SlotID, req.SessionID)
			return nil, ErrSlotNotFound
		default:
			uc.logger.Error("CreateBooking: failed to reserve slot id=%d: %v", req.SlotID, err)
			return nil, fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}
	}

	// 6. Сохраняем бронирование; при неудаче возвращаем место
	created, err := uc.persistBooking(ctx, req)
	if err != nil {
		if releaseErr := uc.allocator.Release(ctx, reservation.SessionID, reservation.SlotID); releaseErr != nil {
			uc.logger.Error("CreateBooking: failed to release slot id=%d after error: %v",
				reservation.SlotID, releaseErr)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, code=%s", created.ID, created.BookingCode)

	// 7. Публикуем событие best-effort
	uc.publishCreated(ctx, created)

	return fromDomain(created, slot), nil
}

// persistBooking сохраняет бронирование, перегенерируя код при коллизии
func (uc *UseCase) persistBooking(ctx context.Context, req *Request) (*domain.Booking, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := generateBookingCode()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to generate booking code: %v", ErrInternal, err)
		}

		booking := &domain.Booking{
			SessionID:   req.SessionID,
			SlotID:      req.SlotID,
			CustomerID:  req.CustomerID,
			BookingCode: code,
			Status:      domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(ctx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateCode) {
				uc.logger.Warn("CreateBooking: booking code collision on attempt %d", attempt)
				continue
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return created, nil
	}

	uc.logger.Error("CreateBooking: exhausted %d booking code attempts", maxCodeAttempts)
	return nil, fmt.Errorf("%w: exhausted booking code attempts", ErrInternal)
}

// publishCreated публикует событие о созданном бронировании
func (uc *UseCase) publishCreated(ctx context.Context, b *domain.Booking) {
	evt := events.BookingEvent{
		Type:        events.EventBookingCreated,
		BookingID:   b.ID,
		SessionID:   b.SessionID,
		SlotID:      b.SlotID,
		CustomerID:  b.CustomerID,
		BookingCode: b.BookingCode,
		Status:      b.Status,
	}
	if err := uc.publisher.PublishBookingEvent(ctx, evt); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish created event for booking id=%d: %v", b.ID, err)
	}
}
