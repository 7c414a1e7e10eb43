package domain

import "time"

// SessionStatus represents the state of a session
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
)

// Session is a schedulable unit of time slots for one counter on one
// calendar day. A session exclusively owns its slots.
type Session struct {
	ID              int64
	BranchID        int64
	CounterID       int64
	InsuranceTypeID int64
	ServiceDate     time.Time // date only, time part is zero
	Status          SessionStatus
	Holidays        bool // true makes every slot unbookable regardless of capacity
	Slots           []Slot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotByID returns the slot with the given id, or nil if the session
// does not own it
func (s *Session) SlotByID(slotID int64) *Slot {
	for i := range s.Slots {
		if s.Slots[i].ID == slotID {
			return &s.Slots[i]
		}
	}
	return nil
}

// SessionFilter фильтр для выборки сессий
type SessionFilter struct {
	BranchID        int64     // Обязательный параметр
	ServiceDate     time.Time // Обязательный параметр (только дата)
	InsuranceTypeID *int64    // Фильтр по типу страхования (опционально)
	CounterID       *int64    // Фильтр по окну (опционально)
}
