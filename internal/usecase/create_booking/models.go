package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request запрос на создание бронирования
type Request struct {
	CustomerID int64 `json:"customerId"`
	SessionID  int64 `json:"sessionId"`
	SlotID     int64 `json:"slotId"`
}

// Response ответ с созданным бронированием
type Response struct {
	ID          int64  `json:"id"`
	SessionID   int64  `json:"sessionId"`
	SlotID      int64  `json:"slotId"`
	CustomerID  int64  `json:"customerId"`
	BookingCode string `json:"bookingCode"`
	Status      string `json:"status"`

	SlotStart string `json:"slotStart"` // ISO 8601
	SlotEnd   string `json:"slotEnd"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// fromDomain конвертирует созданное бронирование и его слот в ответ
func fromDomain(b *domain.Booking, slot *domain.Slot) *Response {
	return &Response{
		ID:          b.ID,
		SessionID:   b.SessionID,
		SlotID:      b.SlotID,
		CustomerID:  b.CustomerID,
		BookingCode: b.BookingCode,
		Status:      string(b.Status),
		SlotStart:   slot.StartAt.Format(time.RFC3339),
		SlotEnd:     slot.EndAt.Format(time.RFC3339),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
