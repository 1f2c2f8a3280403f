package hold

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	"github.com/m04kA/SMC-HoldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HoldService/pkg/psqlbuilder"
)

var holdColumns = []string{
	"id",
	"signing_token",
	"customer_name",
	"customer_email",
	"customer_phone",
	"event_date",
	"time_slot",
	"station_id",
	"status",
	"expires_at",
	"signing_deadline_at",
	"payment_deadline_at",
	"first_sent_at",
	"last_resent_at",
	"send_count",
	"channels_used",
	"agreement_signed_at",
	"payment_reference",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с hold'ами слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория hold'ов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый hold в статусе pending.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, h *domain.SlotHold) (*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_holds").
		Columns(
			"signing_token",
			"customer_name",
			"customer_email",
			"customer_phone",
			"event_date",
			"time_slot",
			"station_id",
			"status",
			"expires_at",
			"signing_deadline_at",
			"payment_deadline_at",
			"send_count",
			"channels_used",
		).
		Values(
			h.SigningToken,
			h.CustomerName,
			h.CustomerEmail,
			h.CustomerPhone,
			h.Slot.EventDate,
			h.Slot.TimeSlot,
			h.Slot.StationID,
			h.Status,
			h.ExpiresAt,
			h.SigningDeadlineAt,
			h.PaymentDeadlineAt,
			h.SendCount,
			h.ChannelsUsed.String(),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return h, nil
}

// GetByID получает hold по ID.
// Внутри транзакции строка блокируется через FOR UPDATE.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.SlotHold, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetBySigningToken получает hold по токену из ссылки на подписание.
// Внутри транзакции строка блокируется через FOR UPDATE.
func (r *Repository) GetBySigningToken(ctx context.Context, token string) (*domain.SlotHold, error) {
	return r.getOne(ctx, squirrel.Eq{"signing_token": token}, "GetBySigningToken")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, op string) (*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("slot_holds").
		Where(where)

	// Блокируем строку, если читаем внутри транзакции -
	// конкурентные переходы статуса сериализуются на уровне строки
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	h, err := scanHold(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan hold: %v", ErrScanRow, op, err)
	}

	return h, nil
}

// SendTrackingUpdate новые значения полей отслеживания отправки ссылки
type SendTrackingUpdate struct {
	SendCount    int
	FirstSentAt  *time.Time
	LastResentAt *time.Time
	ChannelsUsed domain.ChannelSet
	Status       domain.HoldStatus
}

// UpdateSendTracking записывает результат учета попытки отправки.
// Запись защищена CAS-условием на send_count: если счетчик изменился
// после чтения, возвращается ErrTransitionConflict.
func (r *Repository) UpdateSendTracking(ctx context.Context, id int64, expectedCount int, upd SendTrackingUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("send_count", upd.SendCount).
		Set("first_sent_at", upd.FirstSentAt).
		Set("last_resent_at", upd.LastResentAt).
		Set("channels_used", upd.ChannelsUsed.String()).
		Set("status", upd.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "send_count": expectedCount}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSendTracking - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingOneRow(ctx, executor, query, args, "UpdateSendTracking")
}

// TransitionStatus выполняет CAS-переход статуса from -> to.
// Возвращает ErrTransitionConflict, если hold уже не в статусе from.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.HoldStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingOneRow(ctx, executor, query, args, "TransitionStatus")
}

// MarkAgreementSigned переводит hold в новый статус и проставляет
// agreement_signed_at. CAS-условие на исходный статус.
func (r *Repository) MarkAgreementSigned(ctx context.Context, id int64, from, to domain.HoldStatus, signedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("status", to).
		Set("agreement_signed_at", signedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkAgreementSigned - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingOneRow(ctx, executor, query, args, "MarkAgreementSigned")
}

// ConfirmPayment переводит hold awaiting_payment -> confirmed и сохраняет
// ссылку на платеж. CAS-условие на исходный статус.
func (r *Repository) ConfirmPayment(ctx context.Context, id int64, paymentReference string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("status", domain.StatusConfirmed).
		Set("payment_reference", paymentReference).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusAwaitingPayment}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConfirmPayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingOneRow(ctx, executor, query, args, "ConfirmPayment")
}

// Cancel переводит hold в cancelled из любого нетерминального статуса
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": statusStrings(domain.TerminalStatuses)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingOneRow(ctx, executor, query, args, "Cancel")
}

// Expire переводит hold в expired. CAS-условие на исходный статус:
// hold, успевший продвинуться между проверкой дедлайна и записью,
// не будет помечен истекшим.
func (r *Repository) Expire(ctx context.Context, id int64, from domain.HoldStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("status", domain.StatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Expire - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingOneRow(ctx, executor, query, args, "Expire")
}

// RecordDeliveryResult сохраняет результат доставки последней отправки.
// Вызывается вне критической секции hold'а: попытка уже учтена
// транзакционно, здесь фиксируется только исход сетевого вызова.
func (r *Repository) RecordDeliveryResult(ctx context.Context, id int64, delivered bool, providerRef string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set("last_send_delivered", delivered).
		Set("last_provider_ref", providerRef).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordDeliveryResult - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RecordDeliveryResult - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RecordDeliveryResult - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrHoldNotFound
	}

	return nil
}

// ListExpireCandidates возвращает нетерминальные hold'ы, у которых истек
// дедлайн, актуальный для их статуса: дедлайн подписания для фазы
// подписания, дедлайн оплаты для awaiting_payment.
func (r *Repository) ListExpireCandidates(ctx context.Context, now time.Time, limit uint64) ([]*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Граница строгая, как в domain.SlotHold.DeadlinePassed: hold с
	// дедлайном ровно в now еще жив
	signingPhase := squirrel.And{
		squirrel.Eq{"status": statusStrings(domain.SigningPhaseStatuses)},
		squirrel.Lt{"signing_deadline_at": now},
	}
	paymentPhase := squirrel.And{
		squirrel.Eq{"status": string(domain.StatusAwaitingPayment)},
		squirrel.Lt{"payment_deadline_at": now},
	}

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("slot_holds").
		Where(squirrel.Or{signingPhase, paymentPhase}).
		OrderBy("id ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpireCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpireCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

func (r *Repository) execExpectingOneRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrTransitionConflict
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHold(row rowScanner) (*domain.SlotHold, error) {
	var (
		h          domain.SlotHold
		status     string
		channels   string
		paymentRef sql.NullString
		cancelRsn  sql.NullString
		firstSent  sql.NullTime
		lastResent sql.NullTime
		signedAt   sql.NullTime
		cancelled  sql.NullTime
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err := row.Scan(
		&h.ID,
		&h.SigningToken,
		&h.CustomerName,
		&h.CustomerEmail,
		&h.CustomerPhone,
		&h.Slot.EventDate,
		&h.Slot.TimeSlot,
		&h.Slot.StationID,
		&status,
		&h.ExpiresAt,
		&h.SigningDeadlineAt,
		&h.PaymentDeadlineAt,
		&firstSent,
		&lastResent,
		&h.SendCount,
		&channels,
		&signedAt,
		&paymentRef,
		&cancelRsn,
		&cancelled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.Status = domain.HoldStatus(status)
	h.ChannelsUsed = domain.ParseChannelSet(channels)

	if firstSent.Valid {
		h.FirstSentAt = &firstSent.Time
	}
	if lastResent.Valid {
		h.LastResentAt = &lastResent.Time
	}
	if signedAt.Valid {
		h.AgreementSignedAt = &signedAt.Time
	}
	if paymentRef.Valid {
		h.PaymentReference = &paymentRef.String
	}
	if cancelRsn.Valid {
		h.CancellationReason = &cancelRsn.String
	}
	if cancelled.Valid {
		h.CancelledAt = &cancelled.Time
	}
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

func scanHolds(rows *sql.Rows) ([]*domain.SlotHold, error) {
	holds := make([]*domain.SlotHold, 0)

	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %v", ErrScanRow, err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}

func statusStrings(statuses []domain.HoldStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
