package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	ListExpireCandidates(ctx context.Context, now time.Time, limit uint64) ([]*domain.SlotHold, error)
	Expire(ctx context.Context, id int64, from domain.HoldStatus) error
}

// CapacityLedger интерфейс реестра занятости слотов
type CapacityLedger interface {
	Release(ctx context.Context, key domain.SlotKey) error
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
