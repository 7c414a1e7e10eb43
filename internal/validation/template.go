package validation

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Template параметры генерации слотов на один день
// Все поля времени - "HH:MM" внутри дня сессии
type Template struct {
	ServiceDate types.TimeString `json:"-" validate:"-"`

	WindowStart types.TimeString `json:"windowStart" validate:"required,hhmm"`
	WindowEnd   types.TimeString `json:"windowEnd" validate:"required,hhmm"`

	SlotLengthMinutes  int `json:"slotLengthMinutes" validate:"min=5,max=480"`
	BreakLengthMinutes int `json:"breakLengthMinutes" validate:"min=0"`

	// Обеденное окно опционально: оба поля пустые - обеда нет
	LunchStart types.TimeString `json:"lunchStart" validate:"omitempty,hhmm"`
	LunchEnd   types.TimeString `json:"lunchEnd" validate:"omitempty,hhmm"`

	DefaultCapacity int `json:"defaultCapacity" validate:"min=1,max=100"`
	DefaultOverbook int `json:"defaultOverbook" validate:"min=0,max=50"`
}

// HasLunch возвращает true, если обеденное окно задано
func (t *Template) HasLunch() bool {
	return !t.LunchStart.IsZero() || !t.LunchEnd.IsZero()
}

// ValidateTemplate проверяет параметры шаблона генерации
// Структурные правила (форматы, минимумы) проверяются через validator/v10,
// межполевые (порядок окон, вложенность обеда) - вручную
// Возвращает все нарушения сразу, не останавливаясь на первом
func (v *Validator) ValidateTemplate(tpl *Template) Errors {
	errs := v.validateStruct(tpl)

	// Межполевые проверки имеют смысл только для полей с корректным форматом
	windowOK := tpl.WindowStart.Validate() == nil && tpl.WindowEnd.Validate() == nil
	if windowOK && !tpl.WindowStart.IsBefore(tpl.WindowEnd) {
		errs.Add("windowStart", "window start %s must be before window end %s", tpl.WindowStart, tpl.WindowEnd)
	}

	if tpl.HasLunch() {
		if tpl.LunchStart.IsZero() {
			errs.Add("lunchStart", "lunch start is required when lunch end is set")
			return errs
		}
		if tpl.LunchEnd.IsZero() {
			errs.Add("lunchEnd", "lunch end is required when lunch start is set")
			return errs
		}

		lunchOK := tpl.LunchStart.Validate() == nil && tpl.LunchEnd.Validate() == nil
		if !lunchOK {
			return errs
		}

		if !tpl.LunchStart.IsBefore(tpl.LunchEnd) {
			errs.Add("lunchStart", "lunch start %s must be before lunch end %s", tpl.LunchStart, tpl.LunchEnd)
		} else {
			startMin, _ := tpl.LunchStart.Minutes()
			endMin, _ := tpl.LunchEnd.Minutes()
			if endMin-startMin < domain.MinLunchWindowMinutes {
				errs.Add("lunchEnd", "lunch window must be at least %d minutes", domain.MinLunchWindowMinutes)
			}

			if windowOK {
				if tpl.LunchStart.IsBefore(tpl.WindowStart) {
					errs.Add("lunchStart", "lunch window must be inside the session window")
				}
				if tpl.LunchEnd.IsAfter(tpl.WindowEnd) {
					errs.Add("lunchEnd", "lunch window must be inside the session window")
				}
			}
		}
	}

	return errs
}

// WindowInstants возвращает границы рабочего окна как абсолютные моменты,
// привязанные к дате сессии
func (t *Template) WindowInstants(serviceDate time.Time) (start, end time.Time, err error) {
	start, err = t.WindowStart.At(serviceDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = t.WindowEnd.At(serviceDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// LunchInstants возвращает границы обеда как абсолютные моменты
// Если обед не задан, возвращает нулевые значения
func (t *Template) LunchInstants(serviceDate time.Time) (start, end time.Time, err error) {
	if !t.HasLunch() {
		return time.Time{}, time.Time{}, nil
	}
	start, err = t.LunchStart.At(serviceDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = t.LunchEnd.At(serviceDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
