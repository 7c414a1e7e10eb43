package get_sessions

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
)

type SessionService interface {
	Query(ctx context.Context, req *models.QuerySessionsRequest) (*models.SessionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
