package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrCannotCancel возвращается, когда бронирование уже в терминальном статусе
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings service: internal error")
)

// TransitionError недопустимый переход статуса бронирования
type TransitionError struct {
	BookingID int64
	From      domain.BookingStatus
	To        domain.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition for booking=%d: %s -> %s", e.BookingID, e.From, e.To)
}
