package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// SlotInput слот в запросе на создание/редактирование сессии
// Времена приходят как настенные "HH:MM" и привязываются к дате сессии
// на сервере: клиент никогда не передает абсолютные моменты
type SlotInput struct {
	ID       *int64           `json:"id,omitempty"` // nil для новых слотов
	Start    types.TimeString `json:"start"`
	End      types.TimeString `json:"end"`
	Capacity int              `json:"capacity"`
	Overbook int              `json:"overbook"`
}

// ToDomainSlot привязывает настенные времена слота к дате сессии
func (s *SlotInput) ToDomainSlot(serviceDate time.Time) (domain.Slot, error) {
	startAt, err := s.Start.At(serviceDate)
	if err != nil {
		return domain.Slot{}, err
	}
	endAt, err := s.End.At(serviceDate)
	if err != nil {
		return domain.Slot{}, err
	}

	slot := domain.Slot{
		StartAt:  startAt,
		EndAt:    endAt,
		Capacity: s.Capacity,
		Overbook: s.Overbook,
	}
	if s.ID != nil {
		slot.ID = *s.ID
	}
	return slot, nil
}

// CreateSessionRequest запрос на создание сессии
type CreateSessionRequest struct {
	BranchID        int64       `json:"branchId"`
	CounterID       int64       `json:"counterId"`
	InsuranceTypeID int64       `json:"insuranceTypeId"`
	ServiceDate     time.Time   `json:"serviceDate"`
	Holidays        bool        `json:"holidays"`
	Slots           []SlotInput `json:"slots"`
}

// ToDomainSession конвертирует запрос в domain модель
func (r *CreateSessionRequest) ToDomainSession() (*domain.Session, error) {
	slots := make([]domain.Slot, len(r.Slots))
	for i := range r.Slots {
		slot, err := r.Slots[i].ToDomainSlot(r.ServiceDate)
		if err != nil {
			return nil, err
		}
		slots[i] = slot
	}

	return &domain.Session{
		BranchID:        r.BranchID,
		CounterID:       r.CounterID,
		InsuranceTypeID: r.InsuranceTypeID,
		ServiceDate:     r.ServiceDate,
		Status:          domain.SessionScheduled,
		Holidays:        r.Holidays,
		Slots:           slots,
	}, nil
}

// UpdateSessionRequest запрос на редактирование сессии
// Slots - полный желаемый набор: слоты с ID сохраняются (с возможным
// изменением границ и вместимости), слоты без ID добавляются, а
// сохраненные слоты, отсутствующие в списке, удаляются
type UpdateSessionRequest struct {
	Holidays *bool       `json:"holidays,omitempty"`
	Slots    []SlotInput `json:"slots"`
}

// DeleteSessionsRequest запрос на массовое удаление сессий
// Область удаления - все сессии филиала по типу страхования на дату
type DeleteSessionsRequest struct {
	BranchID        int64     `json:"branchId"`
	ServiceDate     time.Time `json:"serviceDate"`
	InsuranceTypeID int64     `json:"insuranceTypeId"`
}

// QuerySessionsRequest запрос на выборку сессий
type QuerySessionsRequest struct {
	BranchID        int64     `json:"branchId"`
	ServiceDate     time.Time `json:"serviceDate"`
	InsuranceTypeID *int64    `json:"insuranceTypeId,omitempty"`
	CounterID       *int64    `json:"counterId,omitempty"`
}

// ToDomainFilter конвертирует запрос в domain фильтр
func (r *QuerySessionsRequest) ToDomainFilter() domain.SessionFilter {
	return domain.SessionFilter{
		BranchID:        r.BranchID,
		ServiceDate:     r.ServiceDate,
		InsuranceTypeID: r.InsuranceTypeID,
		CounterID:       r.CounterID,
	}
}

// Response модели

// SlotResponse слот в ответе
type SlotResponse struct {
	ID             int64  `json:"id"`
	Start          string `json:"start"`   // "10:00"
	End            string `json:"end"`     // "10:30"
	StartAt        string `json:"startAt"` // ISO 8601
	EndAt          string `json:"endAt"`   // ISO 8601
	Capacity       int    `json:"capacity"`
	Booked         int    `json:"booked"`
	Overbook       int    `json:"overbook"`
	AvailableSpots int    `json:"availableSpots"`
}

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID              int64          `json:"id"`
	BranchID        int64          `json:"branchId"`
	CounterID       int64          `json:"counterId"`
	InsuranceTypeID int64          `json:"insuranceTypeId"`
	ServiceDate     string         `json:"serviceDate"` // "2026-09-01"
	Status          string         `json:"status"`
	Holidays        bool           `json:"holidays"`
	Slots           []SlotResponse `json:"slots"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// SessionListResponse ответ со списком сессий
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// DeleteSessionsResponse ответ на массовое удаление
type DeleteSessionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain слот в DTO
func FromDomainSlot(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		Start:          s.StartAt.Format(domain.TimeFormat),
		End:            s.EndAt.Format(domain.TimeFormat),
		StartAt:        s.StartAt.Format(time.RFC3339),
		EndAt:          s.EndAt.Format(time.RFC3339),
		Capacity:       s.Capacity,
		Booked:         s.Booked,
		Overbook:       s.Overbook,
		AvailableSpots: s.AvailableSpots(),
	}
}

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	slots := make([]SlotResponse, len(s.Slots))
	for i := range s.Slots {
		slots[i] = FromDomainSlot(&s.Slots[i])
	}

	return &SessionResponse{
		ID:              s.ID,
		BranchID:        s.BranchID,
		CounterID:       s.CounterID,
		InsuranceTypeID: s.InsuranceTypeID,
		ServiceDate:     s.ServiceDate.Format(domain.DateFormat),
		Status:          string(s.Status),
		Holidays:        s.Holidays,
		Slots:           slots,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainSessionList конвертирует список domain моделей в DTO
func FromDomainSessionList(sessions []*domain.Session) *SessionListResponse {
	resp := &SessionListResponse{
		Sessions: make([]SessionResponse, 0, len(sessions)),
	}

	for _, session := range sessions {
		if sessionResp := FromDomainSession(session); sessionResp != nil {
			resp.Sessions = append(resp.Sessions, *sessionResp)
		}
	}

	return resp
}
