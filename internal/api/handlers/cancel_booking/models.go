package cancel_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest() (*models.CancelBookingRequest, error) {
	if len(r.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("cancellation reason exceeds %d characters", domain.MaxCancellationReasonLength)
	}

	return &models.CancelBookingRequest{
		CancellationReason: r.CancellationReason,
	}, nil
}
