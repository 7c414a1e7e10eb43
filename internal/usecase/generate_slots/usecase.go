package generate_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

// UseCase use case генерации слотов по шаблону
// Чистая функция от шаблона: одинаковый запрос всегда дает одинаковый
// набор кандидатов. Ничего не сохраняет - результат подтверждается
// отдельным запросом на создание сессии.
type UseCase struct {
	validator TemplateValidator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(validator TemplateValidator, logger Logger) *UseCase {
	return &UseCase{
		validator: validator,
		logger:    logger,
	}
}

// Execute выполняет генерацию слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: date=%s, window=[%s, %s), slot=%dm, break=%dm",
		req.ServiceDate.Format(domain.DateFormat), req.WindowStart, req.WindowEnd,
		req.SlotLengthMinutes, req.BreakLengthMinutes)

	if req.ServiceDate.IsZero() {
		return nil, fmt.Errorf("%w: serviceDate is required", ErrInvalidInput)
	}

	tpl := req.ToTemplate()
	if errs := uc.validator.ValidateTemplate(tpl); errs.HasErrors() {
		uc.logger.Warn("GenerateSlots: template validation failed: %v", errs)
		return nil, errs.AsError()
	}

	windowStart, windowEnd, err := tpl.WindowInstants(req.ServiceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: anchor window to service date: %v", ErrInternal, err)
	}

	var lunch *validation.Window
	if tpl.HasLunch() {
		lunchStart, lunchEnd, err := tpl.LunchInstants(req.ServiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: anchor lunch to service date: %v", ErrInternal, err)
		}
		lunch = &validation.Window{Start: lunchStart, End: lunchEnd}
	}

	slots := generate(windowStart, windowEnd, lunch, tpl)

	// Сгенерированный набор проходит через тот же валидатор, что и ручной
	// ввод: генератор не имеет права выдать то, что нельзя сохранить
	window := &validation.Window{Start: windowStart, End: windowEnd}
	if errs := uc.validator.ValidateSlots(req.ServiceDate, window, lunch, slots); errs.HasErrors() {
		uc.logger.Error("GenerateSlots: generated slots failed validation: %v", errs)
		return nil, fmt.Errorf("%w: generated slots failed validation: %v", ErrInternal, errs)
	}

	uc.logger.Info("GenerateSlots: generated %d slots for date=%s",
		len(slots), req.ServiceDate.Format(domain.DateFormat))
	return fromDomainSlots(req.ServiceDate, slots), nil
}

// generate раскладывает слоты по рабочему окну
// Курсор идет от начала окна; слот, пересекающий обед, не усекается,
// а переносится на конец обеда. Неполный хвост окна слотом не становится.
func generate(windowStart, windowEnd time.Time, lunch *validation.Window, tpl *validation.Template) []domain.Slot {
	slotLen := time.Duration(tpl.SlotLengthMinutes) * time.Minute
	breakLen := time.Duration(tpl.BreakLengthMinutes) * time.Minute

	var slots []domain.Slot
	cursor := windowStart
	for !cursor.Add(slotLen).After(windowEnd) {
		end := cursor.Add(slotLen)

		if lunch != nil && lunch.Intersects(cursor, end) {
			cursor = lunch.End
			continue
		}

		slots = append(slots, domain.Slot{
			StartAt:  cursor,
			EndAt:    end,
			Capacity: tpl.DefaultCapacity,
			Overbook: tpl.DefaultOverbook,
		})
		cursor = end.Add(breakLen)
	}

	return slots
}
