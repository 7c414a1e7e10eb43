package delete_sessions

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
)

type SessionService interface {
	Delete(ctx context.Context, req *models.DeleteSessionsRequest) (*models.DeleteSessionsResponse, error)
}

type StaffClient interface {
	GetStaffMember(ctx context.Context, staffID int64) (*staffservice.StaffMember, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
