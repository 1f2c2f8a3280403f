package send_signing_link

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-HoldService/internal/service/notifications"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SlotHold, error)
	UpdateSendTracking(ctx context.Context, id int64, expectedCount int, upd holdRepo.SendTrackingUpdate) error
	RecordDeliveryResult(ctx context.Context, id int64, delivered bool, providerRef string) error
	TransitionStatus(ctx context.Context, id int64, from, to domain.HoldStatus) error
}

// NotificationGateway интерфейс шлюза уведомлений
type NotificationGateway interface {
	Send(ctx context.Context, channel domain.NotifyChannel, hold *domain.SlotHold, signingLink string) (*notifications.DeliveryResult, error)
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
