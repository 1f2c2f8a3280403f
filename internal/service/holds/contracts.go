package holds

import (
	"context"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SlotHold, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// AgreementRepository интерфейс репозитория подписанных соглашений
type AgreementRepository interface {
	ListByHoldID(ctx context.Context, holdID int64) ([]*domain.SignedAgreement, error)
}

// CapacityLedger интерфейс реестра занятости слотов
type CapacityLedger interface {
	Release(ctx context.Context, key domain.SlotKey) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
