package update_session

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotRequest слот в HTTP запросе
// ID присутствует у сохраненных слотов и отсутствует у новых
type SlotRequest struct {
	ID       *int64 `json:"id,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Capacity int    `json:"capacity"`
	Overbook int    `json:"overbook"`
}

// UpdateSessionRequest HTTP request model
type UpdateSessionRequest struct {
	Holidays *bool         `json:"holidays,omitempty"`
	Slots    []SlotRequest `json:"slots"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSessionRequest) ToServiceRequest() (*models.UpdateSessionRequest, error) {
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
			ID:       slot.ID,
			Start:    start,
			End:      end,
			Capacity: slot.Capacity,
			Overbook: slot.Overbook,
		}
	}

	return &models.UpdateSessionRequest{
		Holidays: r.Holidays,
		Slots:    slots,
	}, nil
}
