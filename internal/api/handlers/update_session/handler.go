package update_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/sessions"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgSessionNotFound    = "сессия не найдена"
	msgValidationFailed   = "слоты не прошли валидацию"
	msgSlotConflict       = "изменение затрагивает слот с активными бронированиями"
	msgCapacityConflict   = "новая вместимость меньше числа активных бронирований"
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

// Handle PUT /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, err := strconv.ParseInt(vars["sessionId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /sessions/{id} - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	var req UpdateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PUT /sessions/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.Update(r.Context(), sessionID, serviceReq)
	if err != nil {
		var validationErrs validation.Errors
		var conflictErr *sessions.ConflictError
		var capacityErr *sessions.CapacityError
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("PUT /sessions/{id} - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.As(err, &validationErrs):
			h.logger.Warn("PUT /sessions/{id} - Validation failed: session_id=%d", sessionID)
			handlers.RespondValidationErrors(w, msgValidationFailed, validationErrs)

		case errors.As(err, &capacityErr):
			h.logger.Warn("PUT /sessions/{id} - Capacity conflict: session_id=%d, slot_id=%d, booked=%d",
				sessionID, capacityErr.SlotID, capacityErr.Booked)
			handlers.RespondConflict(w, msgCapacityConflict)

		case errors.As(err, &conflictErr):
			h.logger.Warn("PUT /sessions/{id} - Slot conflict: session_id=%d, slot_id=%d, booking_id=%d",
				sessionID, conflictErr.SlotID, conflictErr.BookingID)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("PUT /sessions/{id} - Failed to update session: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /sessions/{id} - Session updated successfully: session_id=%d", sessionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
