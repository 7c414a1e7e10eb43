package create_session

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotRequest слот в HTTP запросе
type SlotRequest struct {
	Start    string `json:"start"` // "10:00"
	End      string `json:"end"`   // "10:30"
	Capacity int    `json:"capacity"`
	Overbook int    `json:"overbook"`
}

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	BranchID        int64         `json:"branchId"`
	CounterID       int64         `json:"counterId"`
	InsuranceTypeID int64         `json:"insuranceTypeId"`
	ServiceDate     string        `json:"serviceDate"` // "2026-09-01"
	Holidays        bool          `json:"holidays"`
	Slots           []SlotRequest `json:"slots"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSessionRequest) ToServiceRequest() (*models.CreateSessionRequest, error) {
	serviceDate, err := time.Parse(domain.DateFormat, r.ServiceDate)
	if err != nil {
		return nil, err
	}

	slots := make([]models.SlotInput, len(r.Slots))
	for i, slot := range r.Slots {
		start, err := types.NewTimeStringFromString(slot.Start)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(slot.End)
		if err != nil {
			return nil, err
		}
		slots[i] = models.SlotInput{
			Start:    start,
			End:      end,
			Capacity: slot.Capacity,
			Overbook: slot.Overbook,
		}
	}

	return &models.CreateSessionRequest{
		BranchID:        r.BranchID,
		CounterID:       r.CounterID,
		InsuranceTypeID: r.InsuranceTypeID,
		ServiceDate:     serviceDate,
		Holidays:        r.Holidays,
		Slots:           slots,
	}, nil
}
