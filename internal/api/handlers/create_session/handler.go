package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "доступ запрещен"
	msgValidationFailed     = "слоты не прошли валидацию"
	msgBranchNotFound       = "филиал не найден"
	msgCounterNotFound      = "окно обслуживания не найдено"
	msgTypeNotFound         = "тип страхования не найден"
	msgCounterMismatch      = "окно не обслуживает указанный тип страхования"
	msgCounterWrongBranch   = "окно принадлежит другому филиалу"
	msgCounterInactive      = "окно обслуживания отключено"
	msgDateTooEarly         = "сессию можно создать не раньше, чем на завтра"
	msgSessionAlreadyExists = "сессия для этого окна на эту дату уже существует"
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

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	staffID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Сессии создают только сотрудники филиала
	if !h.staffWorksAtBranch(r, staffID, req.BranchID) {
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /sessions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		var validationErrs validation.Errors
		var conflictErr *sessions.ConflictError
		switch {
		case errors.As(err, &validationErrs):
			h.logger.Warn("POST /sessions - Validation failed: branch_id=%d, counter_id=%d", req.BranchID, req.CounterID)
			handlers.RespondValidationErrors(w, msgValidationFailed, validationErrs)

		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /sessions - Session already exists: counter_id=%d, date=%s", req.CounterID, req.ServiceDate)
			handlers.RespondConflict(w, msgSessionAlreadyExists)

		case errors.Is(err, sessions.ErrServiceDateTooEarly):
			h.logger.Warn("POST /sessions - Service date too early: date=%s", req.ServiceDate)
			handlers.RespondBadRequest(w, msgDateTooEarly)

		case errors.Is(err, sessions.ErrBranchNotFound):
			h.logger.Warn("POST /sessions - Branch not found: branch_id=%d", req.BranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, sessions.ErrCounterNotFound):
			h.logger.Warn("POST /sessions - Counter not found: counter_id=%d", req.CounterID)
			handlers.RespondNotFound(w, msgCounterNotFound)

		case errors.Is(err, sessions.ErrInsuranceTypeNotFound):
			h.logger.Warn("POST /sessions - Insurance type not found: type_id=%d", req.InsuranceTypeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, sessions.ErrCounterBranchMismatch):
			h.logger.Warn("POST /sessions - Counter in wrong branch: counter_id=%d, branch_id=%d", req.CounterID, req.BranchID)
			handlers.RespondBadRequest(w, msgCounterWrongBranch)

		case errors.Is(err, sessions.ErrCounterInactive):
			h.logger.Warn("POST /sessions - Counter inactive: counter_id=%d", req.CounterID)
			handlers.RespondBadRequest(w, msgCounterInactive)

		case errors.Is(err, sessions.ErrCounterTypeMismatch):
			h.logger.Warn("POST /sessions - Counter type mismatch: counter_id=%d, type_id=%d", req.CounterID, req.InsuranceTypeID)
			handlers.RespondBadRequest(w, msgCounterMismatch)

		default:
			h.logger.Error("POST /sessions - Failed to create session: branch_id=%d, error=%v", req.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created successfully: session_id=%d, branch_id=%d, staff_id=%d",
		result.ID, req.BranchID, staffID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// staffWorksAtBranch проверяет, что сотрудник закреплен за филиалом
func (h *Handler) staffWorksAtBranch(r *http.Request, staffID, branchID int64) bool {
	staff, err := h.staffClient.GetStaffMember(r.Context(), staffID)
	if err != nil {
		if errors.Is(err, staffservice.ErrStaffNotFound) {
			h.logger.Warn("POST /sessions - Staff member not found: staff_id=%d", staffID)
			return false
		}
		h.logger.Error("POST /sessions - Failed to get staff member: staff_id=%d, error=%v", staffID, err)
		return false
	}

	if !staff.Active || !staff.WorksAtBranch(branchID) {
		h.logger.Warn("POST /sessions - Staff member not allowed: staff_id=%d, branch_id=%d", staffID, branchID)
		return false
	}

	return true
}
