package refdata

import "errors"

var (
	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = errors.New("refdata.repository: branch not found")

	// ErrCounterNotFound возвращается, когда окно обслуживания не найдено
	ErrCounterNotFound = errors.New("refdata.repository: counter not found")

	// ErrInsuranceTypeNotFound возвращается, когда тип страхования не найден
	ErrInsuranceTypeNotFound = errors.New("refdata.repository: insurance type not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("refdata.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("refdata.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("refdata.repository: failed to scan row")
)
