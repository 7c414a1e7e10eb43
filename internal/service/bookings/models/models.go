package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidAction возвращается при неизвестном действии перехода
	ErrInvalidAction = errors.New("invalid transition action")
)

// Действия очереди обслуживания, доступные оператору окна
const (
	ActionCheckIn = "check_in"
	ActionServe   = "serve"
	ActionNoShow  = "no_show"
)

// Request модели

// TransitionRequest запрос на перевод бронирования по очереди обслуживания
type TransitionRequest struct {
	Action string `json:"action"`
}

// ToTargetStatus конвертирует действие в целевой статус
func (r *TransitionRequest) ToTargetStatus() (domain.BookingStatus, error) {
	switch r.Action {
	case ActionCheckIn:
		return domain.StatusCheckedIn, nil
	case ActionServe:
		return domain.StatusServed, nil
	case ActionNoShow:
		return domain.StatusNoShow, nil
	default:
		return "", ErrInvalidAction
	}
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований клиента
type GetUserBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// ToDomainFilter конвертирует запрос в domain фильтр
func (r *GetUserBookingsRequest) ToDomainFilter() (domain.UserBookingsFilter, error) {
	filter := domain.UserBookingsFilter{CustomerID: r.CustomerID}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	SessionID   int64  `json:"sessionId"`
	SlotID      int64  `json:"slotId"`
	CustomerID  int64  `json:"customerId"`
	BookingCode string `json:"bookingCode"`
	Status      string `json:"status"`

	CheckedInAt        *string `json:"checkedInAt,omitempty"` // ISO 8601 format
	ServedAt           *string `json:"servedAt,omitempty"`
	NoShowAt           *string `json:"noShowAt,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		SessionID:          b.SessionID,
		SlotID:             b.SlotID,
		CustomerID:         b.CustomerID,
		BookingCode:        b.BookingCode,
		Status:             string(b.Status),
		CheckedInAt:        formatTimePtr(b.CheckedInAt),
		ServedAt:           formatTimePtr(b.ServedAt),
		NoShowAt:           formatTimePtr(b.NoShowAt),
		CancelledAt:        formatTimePtr(b.CancelledAt),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusConfirmed,
		domain.StatusCheckedIn,
		domain.StatusServed,
		domain.StatusNoShow,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
