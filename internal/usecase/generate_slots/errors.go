package generate_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("generate_slots: internal error")
)
