package preview_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	generateSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgValidationFailed   = "шаблон генерации не прошел валидацию"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/preview-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PreviewSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/preview-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /sessions/preview-slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var validationErrs validation.Errors
		switch {
		case errors.As(err, &validationErrs):
			h.logger.Warn("POST /sessions/preview-slots - Template validation failed: %v", err)
			handlers.RespondValidationErrors(w, msgValidationFailed, validationErrs)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /sessions/preview-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("POST /sessions/preview-slots - Failed to generate slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/preview-slots - Generated %d slots for date=%s", len(result.Slots), req.ServiceDate)
	handlers.RespondJSON(w, http.StatusOK, result)
}
