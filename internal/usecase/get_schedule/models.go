package get_schedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request запрос расписания филиала на дату
// InsuranceTypeID опционально сужает витрину до одного типа страхования
type Request struct {
	BranchID        int64     `json:"branchId"`
	ServiceDate     time.Time `json:"serviceDate"`
	InsuranceTypeID *int64    `json:"insuranceTypeId,omitempty"`
}

// ScheduleSlot слот в расписании филиала
// Holiday сессии делает все её слоты недоступными независимо от мест
type ScheduleSlot struct {
	SlotID         int64   `json:"slotId"`
	SessionID      int64   `json:"sessionId"`
	CounterID      int64   `json:"counterId"`
	Start          string  `json:"start"`   // "10:00"
	End            string  `json:"end"`     // "10:30"
	StartAt        string  `json:"startAt"` // ISO 8601
	EndAt          string  `json:"endAt"`
	Capacity       int     `json:"capacity"`
	Booked         int     `json:"booked"`
	Overbook       int     `json:"overbook"`
	AvailableSpots int     `json:"availableSpots"`
	Available      bool    `json:"available"`
	OccupancyRate  float64 `json:"occupancyRate"`
}

// InsuranceTypeGroup слоты всех окон одного типа страхования
// Слоты разных окон сведены в единую ленту, упорядоченную по началу
type InsuranceTypeGroup struct {
	InsuranceTypeID   int64          `json:"insuranceTypeId"`
	InsuranceTypeName string         `json:"insuranceTypeName"`
	Slots             []ScheduleSlot `json:"slots"`
}

// Response расписание филиала на дату, сгруппированное по типам страхования
type Response struct {
	BranchID    int64                `json:"branchId"`
	ServiceDate string               `json:"serviceDate"`
	Groups      []InsuranceTypeGroup `json:"groups"`
}

// fromDomainSlot конвертирует слот сессии в слот расписания
func fromDomainSlot(session *domain.Session, slot *domain.Slot) ScheduleSlot {
	return ScheduleSlot{
		SlotID:         slot.ID,
		SessionID:      session.ID,
		CounterID:      session.CounterID,
		Start:          slot.StartAt.Format(domain.TimeFormat),
		End:            slot.EndAt.Format(domain.TimeFormat),
		StartAt:        slot.StartAt.Format(time.RFC3339),
		EndAt:          slot.EndAt.Format(time.RFC3339),
		Capacity:       slot.Capacity,
		Booked:         slot.Booked,
		Overbook:       slot.Overbook,
		AvailableSpots: slot.AvailableSpots(),
		Available:      !session.Holidays && !slot.IsFull(),
		OccupancyRate:  slot.OccupancyRate(),
	}
}
