package create_booking

import (
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
// ID клиента не принимается в теле: он берется из заголовка аутентификации
type CreateBookingRequest struct {
	SessionID int64 `json:"sessionId"`
	SlotID    int64 `json:"slotId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) *createBooking.Request {
	return &createBooking.Request{
		CustomerID: customerID,
		SessionID:  r.SessionID,
		SlotID:     r.SlotID,
	}
}
