package send_signing_link

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-HoldService/pkg/ptr"
)

// UseCase use case отправки ссылки на подписание
type UseCase struct {
	holdRepo     HoldRepository
	notifier     NotificationGateway
	txManager    TransactionManager
	linkBaseURL  string
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	notifier NotificationGateway,
	txManager TransactionManager,
	linkBaseURL string,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepo,
		notifier:     notifier,
		txManager:    txManager,
		linkBaseURL:  strings.TrimSuffix(linkBaseURL, "/"),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отправки ссылки на подписание.
// Учет попытки (счетчик, таймстемпы, каналы) фиксируется в транзакции
// ДО обращения к шлюзу доставки: попытка расходуется независимо от того,
// дошло ли сообщение. Переход pending -> link_sent выполняется отдельным
// CAS-обновлением только после подтвержденной доставки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SendSigningLink: holdID=%d, channel=%s", req.HoldID, req.Channel)

	if req.HoldID <= 0 {
		return nil, fmt.Errorf("%w: holdID must be positive", ErrInvalidInput)
	}
	if _, err := domain.ParseNotifyChannel(string(req.Channel)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var hold *domain.SlotHold

	// 1. Транзакционный учет попытки отправки
	trackAttempt := func(txCtx context.Context) error {
		// 1.1. Читаем hold с блокировкой строки
		h, err := uc.holdRepo.GetByID(txCtx, req.HoldID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				return ErrHoldNotFound
			}
			uc.logger.Error("SendSigningLink: failed to get hold id=%d: %v", req.HoldID, err)
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		// 1.2. Отправка допустима только в фазе подписания
		if !h.CanSendLink() {
			uc.logger.Warn("SendSigningLink: hold id=%d is in status %s, sending is not allowed", h.ID, h.Status)
			return fmt.Errorf("%w: hold is in status %s", ErrHoldNotSendable, h.Status)
		}

		// 1.3. Дедлайн перепроверяется на момент запроса: истекший hold
		// отклоняется, даже если sweeper его еще не обработал
		now := uc.timeProvider.Now()
		if h.DeadlinePassed(now) {
			uc.logger.Warn("SendSigningLink: hold id=%d signing deadline passed at %s", h.ID, h.SigningDeadlineAt)
			return ErrDeadlinePassed
		}

		// 1.4. Потолок попыток - попытки, а не доставки
		if h.SendCount >= domain.MaxSendAttempts {
			uc.logger.Warn("SendSigningLink: hold id=%d reached send limit (%d)", h.ID, h.SendCount)
			return ErrRateLimitExceeded
		}

		upd := holdRepo.SendTrackingUpdate{
			SendCount:    h.SendCount + 1,
			FirstSentAt:  h.FirstSentAt,
			LastResentAt: h.LastResentAt,
			ChannelsUsed: h.ChannelsUsed,
			Status:       h.Status,
		}
		if upd.FirstSentAt == nil {
			upd.FirstSentAt = ptr.Ptr(now)
		} else {
			upd.LastResentAt = ptr.Ptr(now)
		}
		upd.ChannelsUsed.Add(req.Channel)

		// 1.5. CAS на send_count отсекает конкурентный учет той же попытки
		if err := uc.holdRepo.UpdateSendTracking(txCtx, h.ID, h.SendCount, upd); err != nil {
			if errors.Is(err, holdRepo.ErrTransitionConflict) {
				return holdRepo.ErrTransitionConflict
			}
			uc.logger.Error("SendSigningLink: failed to update send tracking for hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: failed to update send tracking: %v", ErrInternal, err)
		}

		h.SendCount = upd.SendCount
		h.FirstSentAt = upd.FirstSentAt
		h.LastResentAt = upd.LastResentAt
		h.ChannelsUsed = upd.ChannelsUsed
		hold = h

		return nil
	}

	err := uc.txManager.Do(ctx, trackAttempt)
	if errors.Is(err, holdRepo.ErrTransitionConflict) {
		// Проигранная гонка на счетчике: перечитываем состояние и
		// пробуем учесть попытку еще раз
		uc.logger.Warn("SendSigningLink: concurrent send attempt on hold id=%d, retrying", req.HoldID)
		err = uc.txManager.Do(ctx, trackAttempt)
		if errors.Is(err, holdRepo.ErrTransitionConflict) {
			return nil, ErrSendConflict
		}
	}

	if err != nil {
		return nil, err
	}

	// 2. Доставка выполняется вне транзакции: сетевой вызов не должен
	// держать блокировку строки hold'а
	signingLink := fmt.Sprintf("%s/%s", uc.linkBaseURL, hold.SigningToken)

	delivered := false
	providerRef := ""
	result, err := uc.notifier.Send(ctx, req.Channel, hold, signingLink)
	if err != nil {
		// Попытка уже учтена - сбой доставки не откатывает счетчик
		uc.logger.Warn("SendSigningLink: delivery via %s failed for hold id=%d: %v", req.Channel, hold.ID, err)
	} else {
		delivered = result.Delivered
		providerRef = result.ProviderRef
	}

	// 3. Фиксируем исход доставки и, при успехе, продвигаем статус.
	// Обе записи идут вне критической секции учета попытки.
	if err := uc.holdRepo.RecordDeliveryResult(ctx, hold.ID, delivered, providerRef); err != nil {
		uc.logger.Error("SendSigningLink: failed to record delivery result for hold id=%d: %v", hold.ID, err)
	}

	if delivered && hold.Status == domain.StatusPending {
		err := uc.holdRepo.TransitionStatus(ctx, hold.ID, domain.StatusPending, domain.StatusLinkSent)
		switch {
		case err == nil:
			hold.Status = domain.StatusLinkSent
		case errors.Is(err, holdRepo.ErrTransitionConflict):
			// Статус уже продвинут конкурентной отправкой - не ошибка
			uc.logger.Info("SendSigningLink: hold id=%d already advanced past pending", hold.ID)
		default:
			uc.logger.Error("SendSigningLink: failed to advance hold id=%d to link_sent: %v", hold.ID, err)
		}
	}

	uc.logger.Info("SendSigningLink: hold id=%d, attempt %d/%d via %s, delivered=%t",
		hold.ID, hold.SendCount, domain.MaxSendAttempts, req.Channel, delivered)

	channels := make([]string, 0, hold.ChannelsUsed.Len())
	for _, c := range hold.ChannelsUsed.Slice() {
		channels = append(channels, string(c))
	}

	return &Response{
		HoldID:       hold.ID,
		Status:       string(hold.Status),
		SendCount:    hold.SendCount,
		AttemptsLeft: hold.SendAttemptsLeft(),
		Channels:     channels,
		Delivered:    delivered,
		ProviderRef:  providerRef,
		FirstSentAt:  hold.FirstSentAt,
		LastResentAt: hold.LastResentAt,
	}, nil
}
