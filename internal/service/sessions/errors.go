package sessions

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("session not found")

	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = errors.New("branch not found")

	// ErrCounterNotFound возвращается, когда окно обслуживания не найдено
	ErrCounterNotFound = errors.New("counter not found")

	// ErrInsuranceTypeNotFound возвращается, когда тип страхования не найден
	ErrInsuranceTypeNotFound = errors.New("insurance type not found")

	// ErrCounterInactive возвращается при попытке создать сессию для выключенного окна
	ErrCounterInactive = errors.New("counter is not active")

	// ErrCounterBranchMismatch возвращается, когда окно принадлежит другому филиалу
	ErrCounterBranchMismatch = errors.New("counter does not belong to the branch")

	// ErrCounterTypeMismatch возвращается, когда тип страхования сессии
	// не совпадает с типом, закрепленным за окном
	ErrCounterTypeMismatch = errors.New("counter is bound to a different insurance type")

	// ErrServiceDateTooEarly возвращается, когда дата сессии раньше завтрашнего дня
	ErrServiceDateTooEarly = errors.New("service date must be tomorrow or later")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions service: internal error")
)

// ConflictError состояние данных не позволяет выполнить запрошенную
// мутацию. Всегда называет блокирующий слот и/или бронирование
type ConflictError struct {
	Reason    string
	SessionID int64
	SlotID    int64 // 0, если конфликт не про конкретный слот
	BookingID int64 // 0, если конфликт не про конкретное бронирование
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("conflict: %s (session=%d", e.Reason, e.SessionID)
	if e.SlotID != 0 {
		msg += fmt.Sprintf(", slot=%d", e.SlotID)
	}
	if e.BookingID != 0 {
		msg += fmt.Sprintf(", booking=%d", e.BookingID)
	}
	return msg + ")"
}

// CapacityError попытка сжать слот ниже текущего числа бронирований:
// либо по вместимости, либо по потолку (вместимость + overbook)
type CapacityError struct {
	SlotID      int64
	NewCapacity int
	NewCeiling  int
	Booked      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity conflict: slot=%d has %d active bookings, new capacity %d (ceiling %d) is below that",
		e.SlotID, e.Booked, e.NewCapacity, e.NewCeiling)
}
