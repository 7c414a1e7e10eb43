package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("session not found")

	// ErrSlotNotFound возвращается, когда слот не принадлежит сессии
	ErrSlotNotFound = errors.New("slot not found in session")

	// ErrSessionOnHoliday возвращается при попытке бронирования в праздничный день
	ErrSessionOnHoliday = errors.New("session is closed for a holiday")

	// ErrSessionInPast возвращается, когда дата сессии уже прошла
	ErrSessionInPast = errors.New("session date is in the past")

	// ErrSlotFull возвращается, когда в слоте не осталось мест
	ErrSlotFull = errors.New("slot has no available spots")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_booking: internal error")
)
