package domain

import "time"

// Slot is a fixed time interval within a session carrying a booking
// capacity. Times are absolute instants anchored to the session's
// service date. The booked counter is mutated only by the capacity
// allocator (storage/session), never by structural edits.
type Slot struct {
	ID        int64
	SessionID int64
	StartAt   time.Time
	EndAt     time.Time
	Capacity  int // maximum confirmed bookings (>= 1)
	Booked    int // 0..Capacity+Overbook
	Overbook  int // extra allowance beyond capacity (>= 0)
}

// Ceiling returns the hard booking ceiling: capacity plus overbook
func (s *Slot) Ceiling() int {
	return s.Capacity + s.Overbook
}

// AvailableSpots returns remaining headroom, floored at zero
func (s *Slot) AvailableSpots() int {
	spots := s.Ceiling() - s.Booked
	if spots < 0 {
		return 0
	}
	return spots
}

// IsFull returns true if the slot has no headroom left
func (s *Slot) IsFull() bool {
	return s.Booked >= s.Ceiling()
}

// Overlaps reports whether two slots intersect as half-open intervals
// [StartAt, EndAt). Touching boundaries do not overlap.
func (s *Slot) Overlaps(other *Slot) bool {
	return s.StartAt.Before(other.EndAt) && other.StartAt.Before(s.EndAt)
}

// OccupancyRate returns the occupancy as a percentage (0-100)
func (s *Slot) OccupancyRate() float64 {
	if s.Ceiling() == 0 {
		return 0
	}
	return float64(s.Booked) / float64(s.Ceiling()) * 100
}
