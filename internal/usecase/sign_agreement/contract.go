package sign_agreement

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	GetBySigningToken(ctx context.Context, token string) (*domain.SlotHold, error)
	MarkAgreementSigned(ctx context.Context, id int64, from, to domain.HoldStatus, signedAt time.Time) error
}

// AgreementRepository интерфейс репозитория подписанных соглашений
type AgreementRepository interface {
	Create(ctx context.Context, a *domain.SignedAgreement) (*domain.SignedAgreement, error)
	GetByHoldAndType(ctx context.Context, holdID int64, agreementType domain.AgreementType) (*domain.SignedAgreement, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
