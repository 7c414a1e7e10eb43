package get_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_schedule"
)

const (
	msgInvalidBranchID      = "некорректный ID филиала"
	msgInvalidDate          = "некорректный параметр date, ожидается YYYY-MM-DD"
	msgInvalidInsuranceType = "некорректный параметр insuranceTypeId"
	msgBranchNotFound       = "филиал не найден"
)

type Handler struct {
	useCase GetScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/schedule?date=&insuranceTypeId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil || branchID <= 0 {
		h.logger.Warn("GET /branches/{id}/schedule - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	serviceDate, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /branches/{id}/schedule - Invalid date: %q", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var insuranceTypeID *int64
	if raw := r.URL.Query().Get("insuranceTypeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /branches/{id}/schedule - Invalid insurance type: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidInsuranceType)
			return
		}
		insuranceTypeID = &id
	}

	result, err := h.useCase.Execute(r.Context(), &getSchedule.Request{
		BranchID:        branchID,
		ServiceDate:     serviceDate,
		InsuranceTypeID: insuranceTypeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSchedule.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/schedule - Branch not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, getSchedule.ErrInvalidInput):
			h.logger.Warn("GET /branches/{id}/schedule - Invalid input: branch_id=%d, error=%v", branchID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /branches/{id}/schedule - Failed to build schedule: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/schedule - Schedule built: branch_id=%d, groups=%d", branchID, len(result.Groups))
	handlers.RespondJSON(w, http.StatusOK, result)
}
