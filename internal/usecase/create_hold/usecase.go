package create_hold

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/capacity"
)

// UseCase use case создания hold'а на слот
type UseCase struct {
	holdRepo     HoldRepository
	capacity     CapacityLedger
	txManager    TransactionManager
	deadlines    Deadlines
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	capacity CapacityLedger,
	txManager TransactionManager,
	deadlines Deadlines,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepo,
		capacity:     capacity,
		txManager:    txManager,
		deadlines:    deadlines,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания hold'а.
// Захват слота и создание hold'а выполняются в сериализуемой транзакции:
// из двух конкурентных запросов на один слот ровно один получает hold,
// второй - ErrCapacityExhausted.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: customer=%s, date=%s, slot=%s, station=%d",
		req.CustomerName, req.EventDate.Format(domain.DateFormat), req.TimeSlot, req.StationID)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Генерируем непредсказуемый токен для ссылки на подписание
	token, err := newSigningToken()
	if err != nil {
		uc.logger.Error("CreateHold: failed to generate signing token: %v", err)
		return nil, fmt.Errorf("%w: failed to generate signing token: %v", ErrInternal, err)
	}

	// 3. Собираем hold с дедлайнами - фиксированные смещения от момента создания
	hold := &domain.SlotHold{
		SigningToken:  token,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Slot: domain.SlotKey{
			EventDate: req.EventDate,
			TimeSlot:  req.TimeSlot,
			StationID: req.StationID,
		},
		Status:            domain.StatusPending,
		ExpiresAt:         now.Add(uc.deadlines.Expiry),
		SigningDeadlineAt: now.Add(uc.deadlines.Signing),
		PaymentDeadlineAt: now.Add(uc.deadlines.Payment),
	}

	// 4. Захватываем слот и создаем hold атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Admission control: пытаемся занять ключ слота
		if err := uc.capacity.TryReserve(txCtx, hold.Slot); err != nil {
			if errors.Is(err, capacityRepo.ErrSlotUnavailable) {
				uc.logger.Warn("CreateHold: slot %s unavailable", hold.Slot)
				return ErrCapacityExhausted
			}
			uc.logger.Error("CreateHold: failed to reserve slot %s: %v", hold.Slot, err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 4.2. Создаем hold
		created, err := uc.holdRepo.Create(txCtx, hold)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}

		// 4.3. Привязываем hold к занятому ключу
		if err := uc.capacity.BindHold(txCtx, hold.Slot, created.ID); err != nil {
			uc.logger.Error("CreateHold: failed to bind hold id=%d to claim: %v", created.ID, err)
			return fmt.Errorf("%w: failed to bind hold to claim: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateHold: successfully created hold id=%d for slot %s", hold.ID, hold.Slot)

	return &Response{
		ID:                hold.ID,
		SigningToken:      hold.SigningToken,
		Status:            string(hold.Status),
		EventDate:         hold.Slot.EventDate,
		TimeSlot:          hold.Slot.TimeSlot,
		StationID:         hold.Slot.StationID,
		ExpiresAt:         hold.ExpiresAt,
		SigningDeadlineAt: hold.SigningDeadlineAt,
		PaymentDeadlineAt: hold.PaymentDeadlineAt,
		CreatedAt:         hold.CreatedAt,
	}, nil
}

// newSigningToken генерирует криптографически стойкий токен для ссылки
func newSigningToken() (string, error) {
	b := make([]byte, domain.SigningTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
