package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	ListByFilter(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
	UpdateMeta(ctx context.Context, id int64, holidays bool) error
	UpdateSlot(ctx context.Context, slot *domain.Slot) error
	AddSlots(ctx context.Context, sessionID int64, slots []domain.Slot) error
	DeleteSlots(ctx context.Context, sessionID int64, slotIDs []int64) error
	ListByScope(ctx context.Context, branchID int64, serviceDate time.Time, insuranceTypeID int64) ([]*domain.Session, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FirstActiveBySessionIDs(ctx context.Context, sessionIDs []int64) (*domain.Booking, error)
	FirstActiveBySlotID(ctx context.Context, slotID int64) (*domain.Booking, error)
}

// RefDataRepository интерфейс репозитория справочных данных
type RefDataRepository interface {
	GetBranch(ctx context.Context, id int64) (*domain.Branch, error)
	GetCounter(ctx context.Context, id int64) (*domain.Counter, error)
	GetInsuranceType(ctx context.Context, id int64) (*domain.InsuranceType, error)
}

// SlotValidator интерфейс валидатора слотов
type SlotValidator interface {
	ValidateSlots(serviceDate time.Time, window, lunch *validation.Window, slots []domain.Slot) validation.Errors
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
