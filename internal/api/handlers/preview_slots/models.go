package preview_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	generateSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// PreviewSlotsRequest HTTP request model
type PreviewSlotsRequest struct {
	ServiceDate string `json:"serviceDate"` // "2026-09-01"

	WindowStart string `json:"windowStart"` // "09:00"
	WindowEnd   string `json:"windowEnd"`   // "18:00"

	SlotLengthMinutes  int `json:"slotLengthMinutes"`
	BreakLengthMinutes int `json:"breakLengthMinutes"`

	LunchStart string `json:"lunchStart,omitempty"`
	LunchEnd   string `json:"lunchEnd,omitempty"`

	DefaultCapacity int `json:"defaultCapacity"`
	DefaultOverbook int `json:"defaultOverbook"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Времена передаются как есть: их формат проверяет валидатор шаблона,
// чтобы клиент получил все нарушения одним списком
func (r *PreviewSlotsRequest) ToUseCaseRequest() (*generateSlots.Request, error) {
	serviceDate, err := time.Parse(domain.DateFormat, r.ServiceDate)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		ServiceDate:        serviceDate,
		WindowStart:        types.TimeString(r.WindowStart),
		WindowEnd:          types.TimeString(r.WindowEnd),
		SlotLengthMinutes:  r.SlotLengthMinutes,
		BreakLengthMinutes: r.BreakLengthMinutes,
		LunchStart:         types.TimeString(r.LunchStart),
		LunchEnd:           types.TimeString(r.LunchEnd),
		DefaultCapacity:    r.DefaultCapacity,
		DefaultOverbook:    r.DefaultOverbook,
	}, nil
}
