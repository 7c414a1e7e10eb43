package refdata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий справочных данных: филиалы, окна, типы страхования
// С точки зрения планировщика эти данные read-mostly; CRUD по ним живет
// в административном сервисе
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочных данных
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBranch получает филиал с упорядоченным списком окон
func (r *Repository) GetBranch(ctx context.Context, id int64) (*domain.Branch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "code", "address").
		From("branches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBranch - build select query: %v", ErrBuildQuery, err)
	}

	var branch domain.Branch
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&branch.ID,
		&branch.Name,
		&branch.Code,
		&branch.Address,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBranch - scan branch: %v", ErrScanRow, err)
	}

	counters, err := r.listCounters(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	branch.Counters = counters

	return &branch, nil
}

// GetCounter получает окно обслуживания по ID
func (r *Repository) GetCounter(ctx context.Context, id int64) (*domain.Counter, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "branch_id", "name", "insurance_type_id", "active").
		From("counters").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCounter - build select query: %v", ErrBuildQuery, err)
	}

	var counter domain.Counter
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&counter.ID,
		&counter.BranchID,
		&counter.Name,
		&counter.InsuranceTypeID,
		&counter.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCounterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCounter - scan counter: %v", ErrScanRow, err)
	}

	return &counter, nil
}

// GetInsuranceType получает тип страхования по ID
func (r *Repository) GetInsuranceType(ctx context.Context, id int64) (*domain.InsuranceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description").
		From("insurance_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetInsuranceType - build select query: %v", ErrBuildQuery, err)
	}

	var it domain.InsuranceType
	err = executor.QueryRowContext(ctx, query, args...).Scan(&it.ID, &it.Name, &it.Description)
	if err == sql.ErrNoRows {
		return nil, ErrInsuranceTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetInsuranceType - scan insurance type: %v", ErrScanRow, err)
	}

	return &it, nil
}

// ListInsuranceTypes получает все типы страхования
func (r *Repository) ListInsuranceTypes(ctx context.Context) ([]*domain.InsuranceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description").
		From("insurance_types").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListInsuranceTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListInsuranceTypes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.InsuranceType, 0)
	for rows.Next() {
		var it domain.InsuranceType
		if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, fmt.Errorf("%w: ListInsuranceTypes - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListInsuranceTypes - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// listCounters получает окна филиала, упорядоченные как в филиале
func (r *Repository) listCounters(ctx context.Context, executor dbmetrics.DBExecutor, branchID int64) ([]domain.Counter, error) {
	query, args, err := psqlbuilder.Select("id", "branch_id", "name", "insurance_type_id", "active").
		From("counters").
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listCounters - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listCounters - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counters := make([]domain.Counter, 0)
	for rows.Next() {
		var c domain.Counter
		if err := rows.Scan(&c.ID, &c.BranchID, &c.Name, &c.InsuranceTypeID, &c.Active); err != nil {
			return nil, fmt.Errorf("%w: listCounters - scan row: %v", ErrScanRow, err)
		}
		counters = append(counters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listCounters - rows error: %v", ErrScanRow, err)
	}

	return counters, nil
}
