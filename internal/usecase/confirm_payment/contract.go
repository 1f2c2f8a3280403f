package confirm_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	"github.com/m04kA/SMC-HoldService/internal/events"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SlotHold, error)
	ConfirmPayment(ctx context.Context, id int64, paymentReference string) error
}

// AgreementRepository интерфейс репозитория подписанных соглашений
type AgreementRepository interface {
	ListByHoldID(ctx context.Context, holdID int64) ([]*domain.SignedAgreement, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	PublishHoldConfirmed(ctx context.Context, event events.HoldConfirmedEvent) error
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
