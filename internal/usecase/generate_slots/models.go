package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request запрос на генерацию слотов по шаблону
type Request struct {
	ServiceDate time.Time `json:"serviceDate"`

	WindowStart types.TimeString `json:"windowStart"`
	WindowEnd   types.TimeString `json:"windowEnd"`

	SlotLengthMinutes  int `json:"slotLengthMinutes"`
	BreakLengthMinutes int `json:"breakLengthMinutes"`

	LunchStart types.TimeString `json:"lunchStart,omitempty"`
	LunchEnd   types.TimeString `json:"lunchEnd,omitempty"`

	DefaultCapacity int `json:"defaultCapacity"`
	DefaultOverbook int `json:"defaultOverbook"`
}

// ToTemplate конвертирует запрос в шаблон генерации
func (r *Request) ToTemplate() *validation.Template {
	return &validation.Template{
		WindowStart:        r.WindowStart,
		WindowEnd:          r.WindowEnd,
		SlotLengthMinutes:  r.SlotLengthMinutes,
		BreakLengthMinutes: r.BreakLengthMinutes,
		LunchStart:         r.LunchStart,
		LunchEnd:           r.LunchEnd,
		DefaultCapacity:    r.DefaultCapacity,
		DefaultOverbook:    r.DefaultOverbook,
	}
}

// SlotPreview кандидат-слот в ответе генератора
// Кандидаты возвращаются отмеченными: оператор снимает ненужные
// перед созданием сессии
type SlotPreview struct {
	Start    string `json:"start"` // "10:00"
	End      string `json:"end"`   // "10:30"
	Capacity int    `json:"capacity"`
	Overbook int    `json:"overbook"`
	Selected bool   `json:"selected"`
}

// Response ответ со сгенерированными слотами
type Response struct {
	ServiceDate string        `json:"serviceDate"`
	Slots       []SlotPreview `json:"slots"`
}

// fromDomainSlots конвертирует сгенерированные слоты в ответ
func fromDomainSlots(serviceDate time.Time, slots []domain.Slot) *Response {
	previews := make([]SlotPreview, len(slots))
	for i := range slots {
		previews[i] = SlotPreview{
			Start:    slots[i].StartAt.Format(domain.TimeFormat),
			End:      slots[i].EndAt.Format(domain.TimeFormat),
			Capacity: slots[i].Capacity,
			Overbook: slots[i].Overbook,
			Selected: true,
		}
	}

	return &Response{
		ServiceDate: serviceDate.Format(domain.DateFormat),
		Slots:       previews,
	}
}
