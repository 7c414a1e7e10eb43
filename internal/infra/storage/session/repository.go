package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки Postgres для нарушения уникального ограничения
const uniqueViolation = "23505"

// Repository репозиторий для работы с сессиями и их слотами
// Слоты принадлежат сессии эксклюзивно и читаются/пишутся только здесь
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сессию вместе со слотами
// Ожидается вызов внутри транзакции (service/sessions), чтобы сессия
// и слоты появлялись атомарно
// Возвращает ErrDuplicateSession, если для (branch, counter, date) сессия уже есть
func (r *Repository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"branch_id",
			"counter_id",
			"insurance_type_id",
			"service_date",
			"status",
			"holidays_flag",
		).
		Values(
			s.BranchID,
			s.CounterID,
			s.InsuranceTypeID,
			s.ServiceDate,
			s.Status,
			s.Holidays,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateSession
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	if err := r.insertSlots(ctx, executor, s.ID, s.Slots); err != nil {
		return nil, err
	}

	return s, nil
}

// insertSlots вставляет слоты сессии, проставляя им присвоенные ID
func (r *Repository) insertSlots(ctx context.Context, executor DBExecutor, sessionID int64, slots []domain.Slot) error {
	for i := range slots {
		slot := &slots[i]

		query, args, err := psqlbuilder.Insert("slots").
			Columns("session_id", "start_at", "end_at", "capacity", "booked", "overbook").
			Values(sessionID, slot.StartAt, slot.EndAt, slot.Capacity, slot.Booked, slot.Overbook).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertSlots - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
			return fmt.Errorf("%w: insertSlots - execute insert: %v", ErrExecQuery, err)
		}
		slot.SessionID = sessionID
	}
	return nil
}

// GetByID получает сессию со слотами по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"branch_id",
		"counter_id",
		"insurance_type_id",
		"service_date",
		"status",
		"holidays_flag",
		"created_at",
		"updated_at",
	).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := r.scanSession(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	slots, err := r.loadSlots(ctx, executor, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.Slots = slots[s.ID]

	return s, nil
}

// ListByFilter получает сессии по фильтру (branch, date, [insuranceType], [counter])
// Слоты загружаются для всех сессий, упорядоченные по времени начала
func (r *Repository) ListByFilter(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"branch_id",
		"counter_id",
		"insurance_type_id",
		"service_date",
		"status",
		"holidays_flag",
		"created_at",
		"updated_at",
	).
		From("sessions").
		Where(squirrel.Eq{"branch_id": filter.BranchID}).
		Where(squirrel.Eq{"service_date": filter.ServiceDate}).
		OrderBy("counter_id ASC, id ASC")

	if filter.InsuranceTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"insurance_type_id": *filter.InsuranceTypeID})
	}
	if filter.CounterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"counter_id": *filter.CounterID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}

	return r.attachSlots(ctx, executor, sessions)
}

// UpdateMeta обновляет holidays_flag сессии
func (r *Repository) UpdateMeta(ctx context.Context, id int64, holidays bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("holidays_flag", holidays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateMeta - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateMeta - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateMeta - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// UpdateSlot обновляет структурные поля слота
// Счетчик booked намеренно не трогается: его пишет только аллокатор
func (r *Repository) UpdateSlot(ctx context.Context, slot *domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("start_at", slot.StartAt).
		Set("end_at", slot.EndAt).
		Set("capacity", slot.Capacity).
		Set("overbook", slot.Overbook).
		Where(squirrel.Eq{"id": slot.ID, "session_id": slot.SessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlot - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// AddSlots добавляет слоты к существующей сессии
func (r *Repository) AddSlots(ctx context.Context, sessionID int64, slots []domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.insertSlots(ctx, executor, sessionID, slots)
}

// DeleteSlots удаляет слоты по ID
func (r *Repository) DeleteSlots(ctx context.Context, sessionID int64, slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"session_id": sessionID, "id": slotIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteSlots - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteSlots - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByScope получает сессии в области удаления (branch, insuranceType, date)
// Используется перед массовым удалением для проверки активных бронирований
func (r *Repository) ListByScope(ctx context.Context, branchID int64, serviceDate time.Time, insuranceTypeID int64) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"branch_id",
		"counter_id",
		"insurance_type_id",
		"service_date",
		"status",
		"holidays_flag",
		"created_at",
		"updated_at",
	).
		From("sessions").
		Where(squirrel.Eq{
			"branch_id":         branchID,
			"service_date":      serviceDate,
			"insurance_type_id": insuranceTypeID,
		}).
		OrderBy("counter_id ASC, id ASC")

	// Внутри транзакции блокируем строки до удаления
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByScope - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByScope - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions, err := r.scanSessions(rows)
	if err != nil {
		return nil, err
	}

	return r.attachSlots(ctx, executor, sessions)
}

// DeleteByIDs удаляет сессии по списку ID (слоты удаляются каскадно)
// Возвращает количество удаленных сессий
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("sessions").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// scanSession сканирует одну сессию из строки
func (r *Repository) scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.BranchID,
		&s.CounterID,
		&s.InsuranceTypeID,
		&s.ServiceDate,
		&s.Status,
		&s.Holidays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanSession - scan row: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSessions сканирует результаты запроса в слайс сессий
func (r *Repository) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	sessions := make([]*domain.Session, 0)

	for rows.Next() {
		var s domain.Session
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.BranchID,
			&s.CounterID,
			&s.InsuranceTypeID,
			&s.ServiceDate,
			&s.Status,
			&s.Holidays,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSessions - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSessions - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// attachSlots загружает и прикрепляет слоты к сессиям
func (r *Repository) attachSlots(ctx context.Context, executor DBExecutor, sessions []*domain.Session) ([]*domain.Session, error) {
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}

	slotsBySession, err := r.loadSlots(ctx, executor, ids)
	if err != nil {
		return nil, err
	}

	for _, s := range sessions {
		s.Slots = slotsBySession[s.ID]
	}

	return sessions, nil
}

// loadSlots загружает слоты для набора сессий, сгруппированные по session_id
func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, sessionIDs []int64) (map[int64][]domain.Slot, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"session_id",
		"start_at",
		"end_at",
		"capacity",
		"booked",
		"overbook",
	).
		From("slots").
		Where(squirrel.Eq{"session_id": sessionIDs}).
		OrderBy("start_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Slot, len(sessionIDs))
	for rows.Next() {
		var slot domain.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.SessionID,
			&slot.StartAt,
			&slot.EndAt,
			&slot.Capacity,
			&slot.Booked,
			&slot.Overbook,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}
		result[slot.SessionID] = append(result[slot.SessionID], slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
