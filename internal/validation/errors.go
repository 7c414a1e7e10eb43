package validation

import (
	"fmt"
	"strings"
)

// FieldError ошибка валидации, привязанная к конкретному полю
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors список ошибок валидации
// Валидатор никогда не останавливается на первой ошибке:
// все некорректные поля возвращаются одним списком
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(e), strings.Join(messages, "; "))
}

// Add добавляет ошибку для поля
func (e *Errors) Add(field, format string, v ...interface{}) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, v...)})
}

// HasErrors возвращает true, если список не пуст
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// AsError возвращает e как error или nil, если ошибок нет
func (e Errors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
