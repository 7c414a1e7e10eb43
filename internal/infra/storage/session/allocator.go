package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Reservation подтверждение успешного резервирования места в слоте
// Токен живет только в пределах запроса: резерв либо фиксируется
// бронированием, либо откатывается через Release до ответа клиенту
type Reservation struct {
	Token     string
	SessionID int64
	SlotID    int64
}

// TryReserve атомарно занимает одно место в слоте
//
// Единственный писатель счетчика booked. Проверка и инкремент выполняются
// одним UPDATE с условием booked < capacity + overbook: два конкурентных
// вызова не могут оба увидеть свободное место и оба записать - БД
// сериализует изменения строки, и лишний вызов получит ErrSlotFull.
// Обработчики запросов работают в нескольких инстансах, поэтому
// внутрипроцессные блокировки здесь не защитили бы ничего
func (r *Repository) TryReserve(ctx context.Context, sessionID, slotID int64) (*Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked", squirrel.Expr("booked + 1")).
		Where(squirrel.Eq{"id": slotID, "session_id": sessionID}).
		Where(squirrel.Expr("booked < capacity + overbook")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: TryReserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: TryReserve - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: TryReserve - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		// Либо слот полон, либо (session, slot) не существует - различаем
		if err := r.slotExists(ctx, executor, sessionID, slotID); err != nil {
			return nil, err
		}
		return nil, ErrSlotFull
	}

	return &Reservation{
		Token:     uuid.NewString(),
		SessionID: sessionID,
		SlotID:    slotID,
	}, nil
}

// Release атомарно освобождает одно место в слоте
// Счетчик не уходит ниже нуля; повторный Release не является ошибкой
func (r *Repository) Release(ctx context.Context, sessionID, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked", squirrel.Expr("booked - 1")).
		Where(squirrel.Eq{"id": slotID, "session_id": sessionID}).
		Where(squirrel.Expr("booked > 0")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// slotExists проверяет существование слота в сессии
// Возвращает ErrSlotNotFound, если пары (session, slot) нет
func (r *Repository) slotExists(ctx context.Context, executor DBExecutor, sessionID, slotID int64) error {
	query, args, err := psqlbuilder.Select("1").
		From("slots").
		Where(squirrel.Eq{"id": slotID, "session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: slotExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: slotExists - execute query: %v", ErrExecQuery, err)
	}
	return nil
}
