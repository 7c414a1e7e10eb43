package get_sessions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions/models"
)

const (
	msgInvalidBranchID  = "некорректный ID филиала"
	msgInvalidDate      = "некорректный параметр date, ожидается YYYY-MM-DD"
	msgInvalidTypeID    = "некорректный параметр insuranceTypeId"
	msgInvalidCounterID = "некорректный параметр counterId"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/sessions?date=&insuranceTypeId=&counterId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil || branchID <= 0 {
		h.logger.Warn("GET /branches/{id}/sessions - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	query := r.URL.Query()

	serviceDate, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /branches/{id}/sessions - Invalid date: %q", query.Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.QuerySessionsRequest{
		BranchID:    branchID,
		ServiceDate: serviceDate,
	}

	if raw := query.Get("insuranceTypeId"); raw != "" {
		insuranceTypeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || insuranceTypeID <= 0 {
			h.logger.Warn("GET /branches/{id}/sessions - Invalid insurance type ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidTypeID)
			return
		}
		req.InsuranceTypeID = &insuranceTypeID
	}

	if raw := query.Get("counterId"); raw != "" {
		counterID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || counterID <= 0 {
			h.logger.Warn("GET /branches/{id}/sessions - Invalid counter ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidCounterID)
			return
		}
		req.CounterID = &counterID
	}

	result, err := h.service.Query(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /branches/{id}/sessions - Failed to query sessions: branch_id=%d, error=%v", branchID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /branches/{id}/sessions - Retrieved %d sessions: branch_id=%d", len(result.Sessions), branchID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
