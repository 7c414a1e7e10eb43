package delete_sessions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
)

const (
	msgInvalidBranchID = "некорректный параметр branchId"
	msgInvalidTypeID   = "некорректный параметр insuranceTypeId"
	msgInvalidDate     = "некорректный параметр date, ожидается YYYY-MM-DD"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
	msgScopeBlocked    = "в удаляемых сессиях есть активные бронирования"
)

type Handler struct {
	service     SessionService
	staffClient StaffClient
	logger      Logger
}

func NewHandler(service SessionService, staffClient StaffClient, logger Logger) *Handler {
	return &Handler{
		service:     service,
		staffClient: staffClient,
		logger:      logger,
	}
}

// Handle DELETE /api/v1/sessions?branchId=&insuranceTypeId=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	branchID, err := strconv.ParseInt(query.Get("branchId"), 10, 64)
	if err != nil || branchID <= 0 {
		h.logger.Warn("DELETE /sessions - Invalid branch ID: %q", query.Get("branchId"))
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	insuranceTypeID, err := strconv.ParseInt(query.Get("insuranceTypeId"), 10, 64)
	if err != nil || insuranceTypeID <= 0 {
		h.logger.Warn("DELETE /sessions - Invalid insurance type ID: %q", query.Get("insuranceTypeId"))
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	serviceDate, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("DELETE /sessions - Invalid date: %q", query.Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	staffID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if !h.staffWorksAtBranch(r, staffID, branchID) {
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.Delete(r.Context(), &models.DeleteSessionsRequest{
		BranchID:        branchID,
		ServiceDate:     serviceDate,
		InsuranceTypeID: insuranceTypeID,
	})
	if err != nil {
		var conflictErr *sessions.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("DELETE /sessions - Scope blocked: branch_id=%d, session_id=%d, booking_id=%d",
				branchID, conflictErr.SessionID, conflictErr.BookingID)
			handlers.RespondConflict(w, msgScopeBlocked)

		default:
			h.logger.Error("DELETE /sessions - Failed to delete sessions: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /sessions - Deleted %d sessions: branch_id=%d, type_id=%d, staff_id=%d",
		result.Deleted, branchID, insuranceTypeID, staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// staffWorksAtBranch проверяет, что сотрудник закреплен за филиалом
func (h *Handler) staffWorksAtBranch(r *http.Request, staffID, branchID int64) bool {
	staff, err := h.staffClient.GetStaffMember(r.Context(), staffID)
	if err != nil {
		if errors.Is(err, staffservice.ErrStaffNotFound) {
			h.logger.Warn("DELETE /sessions - Staff member not found: staff_id=%d", staffID)
			return false
		}
		h.logger.Error("DELETE /sessions - Failed to get staff member: staff_id=%d, error=%v", staffID, err)
		return false
	}

	if !staff.Active || !staff.WorksAtBranch(branchID) {
		h.logger.Warn("DELETE /sessions - Staff member not allowed: staff_id=%d, branch_id=%d", staffID, branchID)
		return false
	}

	return true
}
