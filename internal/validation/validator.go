package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Validator структурный валидатор сессий и шаблонов слотов
// Одна и та же проверка вызывается из двух мест: интерактивно при
// генерации/редактировании (немедленная обратная связь) и как
// авторитетный гейт в service/sessions перед записью. Поэтому клиентская
// и серверная валидация не могут разойтись по строгости
type Validator struct {
	validate *validator.Validate
}

// New создает валидатор с зарегистрированными кастомными правилами
func New() *Validator {
	v := validator.New()

	// Имена полей в ошибках берем из json-тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// hhmm: поле является корректным временем "HH:MM"
	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		// Регистрация падает только при пустом имени правила
		panic(fmt.Sprintf("validation: failed to register hhmm rule: %v", err))
	}

	return &Validator{validate: v}
}

func validateHHMM(fl validator.FieldLevel) bool {
	ts := types.TimeString(fl.Field().String())
	return ts.Validate() == nil
}

// validateStruct прогоняет структурные правила validator/v10 и
// переводит нарушения в поэлементный список Errors
func (v *Validator) validateStruct(s interface{}) Errors {
	var errs Errors

	err := v.validate.Struct(s)
	if err == nil {
		return errs
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		errs.Add("", "invalid input: %v", err)
		return errs
	}

	for _, fe := range vErrs {
		errs.Add(fe.Field(), "%s", messageForTag(fe))
	}

	return errs
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "hhmm":
		return fmt.Sprintf("must be a valid time in HH:MM format, got %q", fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
