package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис очереди обслуживания бронирований
// Ведет жизненный цикл бронирования после подтверждения: отметку о
// прибытии, завершение обслуживания, неявку и отмену
type Service struct {
	bookingRepo BookingRepository
	allocator   CapacityAllocator
	publisher   EventPublisher
	txManager   TransactionManager
	timeSource  TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	allocator CapacityAllocator,
	publisher EventPublisher,
	txManager TransactionManager,
	timeSource TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		allocator:   allocator,
		publisher:   publisher,
		txManager:   txManager,
		timeSource:  timeSource,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid status=%v for customer=%d", req.Status, req.CustomerID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// Transition переводит бронирование по очереди обслуживания
// Допустимые переходы: confirmed -> checked_in -> served; no_show
// достижим из confirmed и checked_in. Недопустимый переход возвращает
// TransitionError с текущим и целевым статусами.
func (s *Service) Transition(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	s.logger.Info("Transition: booking id=%d, action=%s", bookingID, req.Action)

	target, err := req.ToTargetStatus()
	if err != nil {
		s.logger.Warn("Transition: unknown action=%s for booking id=%d", req.Action, bookingID)
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Transition - fetch booking: %v", ErrInternal, err)
		}

		if !canTransition(booking.Status, target) {
			return &TransitionError{BookingID: bookingID, From: booking.Status, To: target}
		}

		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, target, s.timeSource.Now()); err != nil {
			return fmt.Errorf("%w: Transition - update status: %v", ErrInternal, err)
		}

		updated, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Transition - reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		var transitionErr *TransitionError
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("Transition: booking id=%d not found", bookingID)
		case errors.As(err, &transitionErr):
			s.logger.Warn("Transition: booking id=%d rejected: %v", bookingID, err)
		default:
			s.logger.Error("Transition: booking id=%d failed: %v", bookingID, err)
		}
		return nil, err
	}

	s.publishEvent(ctx, updated, eventTypeForStatus(target))

	s.logger.Info("Transition: booking id=%d moved to status=%s", bookingID, target)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование и освобождает место в слоте
// Отмена и возврат места выполняются в одной транзакции: бронирование
// не может оказаться отмененным с занятым местом
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - fetch booking: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			return fmt.Errorf("%w: status is %s", ErrCannotCancel, booking.Status)
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason, s.timeSource.Now()); err != nil {
			return fmt.Errorf("%w: Cancel - cancel booking: %v", ErrInternal, err)
		}

		if err := s.allocator.Release(ctx, booking.SessionID, booking.SlotID); err != nil {
			return fmt.Errorf("%w: Cancel - release slot capacity: %v", ErrInternal, err)
		}

		updated, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Cancel - reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
		case errors.Is(err, ErrCannotCancel):
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled: %v", bookingID, err)
		default:
			s.logger.Error("Cancel: booking id=%d failed: %v", bookingID, err)
		}
		return nil, err
	}

	s.publishEvent(ctx, updated, events.EventBookingCancelled)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

// publishEvent публикует событие жизненного цикла best-effort
// Отказ брокера не влияет на исход запроса
func (s *Service) publishEvent(ctx context.Context, b *domain.Booking, eventType string) {
	evt := events.BookingEvent{
		Type:        eventType,
		BookingID:   b.ID,
		SessionID:   b.SessionID,
		SlotID:      b.SlotID,
		CustomerID:  b.CustomerID,
		BookingCode: b.BookingCode,
		Status:      b.Status,
	}
	if err := s.publisher.PublishBookingEvent(ctx, evt); err != nil {
		s.logger.Warn("publishEvent: failed to publish %s for booking id=%d: %v", eventType, b.ID, err)
	}
}

// eventTypeForStatus возвращает тип события для целевого статуса
func eventTypeForStatus(status domain.BookingStatus) string {
	switch status {
	case domain.StatusCheckedIn:
		return events.EventBookingCheckedIn
	case domain.StatusServed:
		return events.EventBookingServed
	case domain.StatusNoShow:
		return events.EventBookingNoShow
	case domain.StatusCancelled:
		return events.EventBookingCancelled
	default:
		return events.EventBookingCreated
	}
}
