package agreement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	"github.com/m04kA/SMC-HoldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HoldService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения уникального индекса
const pgUniqueViolation = "23505"

// Repository репозиторий подписанных соглашений.
// Таблица append-only: записи создаются ровно один раз при подписании
// и никогда не изменяются и не удаляются.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория соглашений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись о подписанном соглашении.
// Уникальность пары (hold_id, agreement_type) обеспечивается индексом;
// нарушение транслируется в ErrDuplicateAgreement.
func (r *Repository) Create(ctx context.Context, a *domain.SignedAgreement) (*domain.SignedAgreement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("signed_agreements").
		Columns(
			"hold_id",
			"agreement_type",
			"signer_name",
			"signer_email",
			"signed_at",
		).
		Values(
			a.HoldID,
			a.AgreementType,
			a.SignerName,
			a.SignerEmail,
			a.SignedAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateAgreement
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time

	return a, nil
}

// GetByHoldAndType получает соглашение конкретного типа для hold'а
func (r *Repository) GetByHoldAndType(ctx context.Context, holdID int64, agreementType domain.AgreementType) (*domain.SignedAgreement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"hold_id",
		"agreement_type",
		"signer_name",
		"signer_email",
		"signed_at",
		"created_at",
	).
		From("signed_agreements").
		Where(squirrel.Eq{"hold_id": holdID, "agreement_type": agreementType}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByHoldAndType - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAgreement(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHoldAndType - scan agreement: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListByHoldID возвращает все подписанные соглашения hold'а
// в порядке подписания
func (r *Repository) ListByHoldID(ctx context.Context, holdID int64) ([]*domain.SignedAgreement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"hold_id",
		"agreement_type",
		"signer_name",
		"signer_email",
		"signed_at",
		"created_at",
	).
		From("signed_agreements").
		Where(squirrel.Eq{"hold_id": holdID}).
		OrderBy("signed_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByHoldID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByHoldID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	agreements := make([]*domain.SignedAgreement, 0)
	for rows.Next() {
		a, err := scanAgreement(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByHoldID - scan row: %v", ErrScanRow, err)
		}
		agreements = append(agreements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByHoldID - rows error: %v", ErrScanRow, err)
	}

	return agreements, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgreement(row rowScanner) (*domain.SignedAgreement, error) {
	var (
		a             domain.SignedAgreement
		agreementType string
		createdAt     sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.HoldID,
		&agreementType,
		&a.SignerName,
		&a.SignerEmail,
		&a.SignedAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.AgreementType = domain.AgreementType(agreementType)
	a.CreatedAt = createdAt.Time

	return &a, nil
}
