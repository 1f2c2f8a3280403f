package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	"github.com/m04kA/SMC-HoldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HoldService/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Repository журнал занятости слотов.
// Строка в slot_claims означает, что ключ (дата, слот, станция) занят -
// либо активным hold'ом, либо подтвержденным бронированием.
// Первичный ключ таблицы гарантирует ровно одного победителя при
// конкурентных попытках занять один и тот же слот.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр журнала занятости
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// TryReserve атомарно занимает ключ слота.
// Возвращает ErrSlotUnavailable, если ключ уже занят: из двух
// одновременных запросов на один слот выигрывает ровно один.
func (r *Repository) TryReserve(ctx context.Context, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_claims").
		Columns("event_date", "time_slot", "station_id").
		Values(key.EventDate, key.TimeSlot, key.StationID).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TryReserve - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("%w: TryReserve - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// BindHold привязывает созданный hold к занятому ключу.
// Вызывается в той же транзакции, что и TryReserve.
func (r *Repository) BindHold(ctx context.Context, key domain.SlotKey, holdID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_claims").
		Set("hold_id", holdID).
		Where(squirrel.Eq{
			"event_date": key.EventDate,
			"time_slot":  key.TimeSlot,
			"station_id": key.StationID,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: BindHold - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: BindHold - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: BindHold - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrClaimNotFound
	}

	return nil
}

// Release освобождает ключ слота. Идемпотентна: повторный вызов
// для уже свободного ключа не является ошибкой.
func (r *Repository) Release(ctx context.Context, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_claims").
		Where(squirrel.Eq{
			"event_date": key.EventDate,
			"time_slot":  key.TimeSlot,
			"station_id": key.StationID,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}
