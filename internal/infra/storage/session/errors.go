package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("session.repository: session not found")

	// ErrSlotNotFound возвращается, когда слот не найден в сессии
	ErrSlotNotFound = errors.New("session.repository: slot not found")

	// ErrDuplicateSession возвращается при попытке создать вторую сессию
	// для того же окна на ту же дату
	ErrDuplicateSession = errors.New("session.repository: session already exists for counter and date")

	// ErrSlotFull возвращается, когда в слоте не осталось мест
	// Ожидаемый исход гонки за слот, не инфраструктурный сбой
	ErrSlotFull = errors.New("session.repository: slot is full")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("session.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("session.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("session.repository: failed to scan row")
)
