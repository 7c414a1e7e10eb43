package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.SessionID <= 0 {
		return fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	return nil
}

// validateSessionBookable проверяет, что сессия принимает бронирования
func validateSessionBookable(session *domain.Session, now time.Time) error {
	if session.Holidays {
		return ErrSessionOnHoliday
	}

	// Сравниваем только даты: бронировать можно до конца дня сессии
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, session.ServiceDate.Location())
	if session.ServiceDate.Before(today) {
		return ErrSessionInPast
	}

	return nil
}
