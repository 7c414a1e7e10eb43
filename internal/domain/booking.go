package domain

import "time"

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusServed    BookingStatus = "served"
	StatusNoShow    BookingStatus = "no_show"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer's confirmed reservation against one slot.
// It holds a non-owning reference to a (session, slot) pair.
type Booking struct {
	ID          int64
	SessionID   int64
	SlotID      int64
	CustomerID  int64
	BookingCode string
	Status      BookingStatus

	CheckedInAt        *time.Time
	ServedAt           *time.Time
	NoShowAt           *time.Time
	CancelledAt        *time.Time
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusServed || b.Status == StatusNoShow || b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// UserBookingsFilter фильтр для получения бронирований клиента
type UserBookingsFilter struct {
	CustomerID int64          // Обязательный параметр
	Status     *BookingStatus // Фильтр по статусу (опционально)
}
