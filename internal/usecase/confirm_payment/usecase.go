package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	"github.com/m04kA/SMC-HoldService/internal/events"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
)

// UseCase use case подтверждения оплаты от платежной системы
type UseCase struct {
	holdRepo      HoldRepository
	agreementRepo AgreementRepository
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	agreementRepo AgreementRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:      holdRepo,
		agreementRepo: agreementRepo,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case подтверждения оплаты.
// Webhook идемпотентен по платежному референсу: повтор с тем же
// референсом на уже подтвержденном hold'е возвращает успех без
// повторной публикации события. Переход awaiting_payment -> confirmed
// защищен CAS-условием на статус.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: holdID=%d, ref=%s", req.HoldID, req.PaymentReference)

	if req.HoldID <= 0 {
		return nil, fmt.Errorf("%w: holdID must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.PaymentReference) == "" {
		return nil, fmt.Errorf("%w: paymentReference is required", ErrInvalidInput)
	}

	var (
		hold         *domain.SlotHold
		agreementIDs []int64
		replayed     bool
	)

	confirmTx := func(txCtx context.Context) error {
		// 1. Читаем hold с блокировкой строки
		h, err := uc.holdRepo.GetByID(txCtx, req.HoldID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				return ErrHoldNotFound
			}
			uc.logger.Error("ConfirmPayment: failed to get hold id=%d: %v", req.HoldID, err)
			return fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
		}

		// 2. Повтор webhook'а: hold уже подтвержден этим же референсом
		if h.Status == domain.StatusConfirmed {
			if h.PaymentReference != nil && *h.PaymentReference == req.PaymentReference {
				uc.logger.Info("ConfirmPayment: hold id=%d already confirmed with ref=%s, replay", h.ID, req.PaymentReference)
				agreements, err := uc.agreementRepo.ListByHoldID(txCtx, h.ID)
				if err != nil {
					uc.logger.Error("ConfirmPayment: failed to list agreements for hold id=%d: %v", h.ID, err)
					return fmt.Errorf("%w: failed to list agreements: %v", ErrInternal, err)
				}
				agreementIDs = make([]int64, 0, len(agreements))
				for _, a := range agreements {
					agreementIDs = append(agreementIDs, a.ID)
				}
				hold = h
				replayed = true
				return nil
			}
			uc.logger.Warn("ConfirmPayment: hold id=%d confirmed with a different reference", h.ID)
			return ErrPaymentRefMismatch
		}

		// 3. Оплата принимается только в фазе ожидания оплаты
		if !h.CanConfirmPayment() {
			uc.logger.Warn("ConfirmPayment: hold id=%d is in status %s, payment is not expected", h.ID, h.Status)
			return fmt.Errorf("%w: hold is in status %s", ErrHoldNotPayable, h.Status)
		}

		// 4. Дедлайн оплаты перепроверяется на момент подтверждения
		now := uc.timeProvider.Now()
		if h.DeadlinePassed(now) {
			uc.logger.Warn("ConfirmPayment: hold id=%d payment deadline passed at %s", h.ID, h.PaymentDeadlineAt)
			return ErrDeadlinePassed
		}

		// 5. CAS-переход awaiting_payment -> confirmed
		if err := uc.holdRepo.ConfirmPayment(txCtx, h.ID, req.PaymentReference); err != nil {
			if errors.Is(err, holdRepo.ErrTransitionConflict) {
				return holdRepo.ErrTransitionConflict
			}
			uc.logger.Error("ConfirmPayment: failed to confirm hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: failed to confirm payment: %v", ErrInternal, err)
		}

		h.Status = domain.StatusConfirmed
		h.PaymentReference = &req.PaymentReference
		hold = h

		// 6. Собираем подписанные соглашения для события
		agreements, err := uc.agreementRepo.ListByHoldID(txCtx, h.ID)
		if err != nil {
			uc.logger.Error("ConfirmPayment: failed to list agreements for hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: failed to list agreements: %v", ErrInternal, err)
		}
		agreementIDs = make([]int64, 0, len(agreements))
		for _, a := range agreements {
			agreementIDs = append(agreementIDs, a.ID)
		}

		return nil
	}

	err := uc.txManager.Do(ctx, confirmTx)
	if errors.Is(err, holdRepo.ErrTransitionConflict) {
		// Проигранный CAS: со свежим состоянием повтор разрешится сам -
		// как replay, расхождение референсов или not-payable
		uc.logger.Warn("ConfirmPayment: concurrent transition on hold id=%d, retrying", req.HoldID)
		err = uc.txManager.Do(ctx, confirmTx)
		if errors.Is(err, holdRepo.ErrTransitionConflict) {
			err = fmt.Errorf("%w: hold left awaiting_payment concurrently", ErrHoldNotPayable)
		}
	}

	if err != nil {
		return nil, err
	}

	// 7. Событие публикуется после коммита и ровно один раз на переход:
	// повтор webhook'а события не порождает. Сбой публикации не
	// откатывает подтверждение - потерянное событие фиксируется в логах
	// и метриках publisher'а.
	if !replayed {
		event := events.HoldConfirmedEvent{
			EventID:          uuid.NewString(),
			HoldID:           hold.ID,
			CustomerName:     hold.CustomerName,
			CustomerEmail:    hold.CustomerEmail,
			CustomerPhone:    hold.CustomerPhone,
			EventDate:        hold.Slot.EventDate.Format(domain.DateFormat),
			TimeSlot:         hold.Slot.TimeSlot.String(),
			StationID:        hold.Slot.StationID,
			AgreementIDs:     agreementIDs,
			PaymentReference: req.PaymentReference,
			ConfirmedAt:      uc.timeProvider.Now().Format(time.RFC3339),
		}
		if err := uc.publisher.PublishHoldConfirmed(ctx, event); err != nil {
			uc.logger.Error("ConfirmPayment: failed to publish hold.confirmed for hold id=%d: %v", hold.ID, err)
		}
	}

	uc.logger.Info("ConfirmPayment: hold id=%d confirmed, ref=%s, replayed=%t", hold.ID, req.PaymentReference, replayed)

	return &Response{
		HoldID:           hold.ID,
		Status:           string(hold.Status),
		PaymentReference: req.PaymentReference,
		AgreementIDs:     agreementIDs,
		Replayed:         replayed,
	}, nil
}
