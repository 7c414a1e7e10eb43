package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validation"
)

// TemplateValidator интерфейс валидатора шаблона и слотов
type TemplateValidator interface {
	ValidateTemplate(tpl *validation.Template) validation.Errors
	ValidateSlots(serviceDate time.Time, window, lunch *validation.Window, slots []domain.Slot) validation.Errors
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
