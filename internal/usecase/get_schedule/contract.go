package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListByFilter(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error)
}

// RefDataRepository интерфейс репозитория справочных данных
type RefDataRepository interface {
	GetBranch(ctx context.Context, id int64) (*domain.Branch, error)
	ListInsuranceTypes(ctx context.Context) ([]*domain.InsuranceType, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
