package holds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-HoldService/internal/service/holds/models"
)

// Service сервис операторской панели для работы с hold'ами
type Service struct {
	holdRepo      HoldRepository
	agreementRepo AgreementRepository
	capacity      CapacityLedger
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса hold'ов
func NewService(
	holdRepo HoldRepository,
	agreementRepo AgreementRepository,
	capacity CapacityLedger,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		holdRepo:      holdRepo,
		agreementRepo: agreementRepo,
		capacity:      capacity,
		txManager:     txManager,
		logger:        logger,
	}
}

// GetByID получает hold со всей историей: отправки ссылки, подписанные
// соглашения, платежный референс
func (s *Service) GetByID(ctx context.Context, id int64) (*models.HoldResponse, error) {
	s.logger.Info("GetByID: fetching hold id=%d", id)

	hold, err := s.holdRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("GetByID: hold id=%d not found", id)
			return nil, ErrHoldNotFound
		}
		s.logger.Error("GetByID: repository error for hold id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	agreements, err := s.agreementRepo.ListByHoldID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list agreements for hold id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to list agreements: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched hold id=%d, status=%s", id, hold.Status)
	return models.FromDomainHold(hold, agreements), nil
}

// Cancel отменяет hold по решению оператора и освобождает слот.
// Отмена и освобождение слота выполняются в одной транзакции: слот
// становится доступным для новых hold'ов в момент коммита.
func (s *Service) Cancel(ctx context.Context, holdID int64, req *models.CancelHoldRequest) error {
	s.logger.Info("Cancel: cancelling hold id=%d", holdID)

	if strings.TrimSpace(req.Reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	cancelTx := func(txCtx context.Context) error {
		// Читаем hold с блокировкой строки
		hold, err := s.holdRepo.GetByID(txCtx, holdID)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				s.logger.Warn("Cancel: hold id=%d not found", holdID)
				return ErrHoldNotFound
			}
			s.logger.Error("Cancel: repository error for hold id=%d: %v", holdID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Терминальные hold'ы не отменяются
		if !hold.CanBeCancelled() {
			s.logger.Warn("Cancel: hold id=%d cannot be cancelled, status=%s", holdID, hold.Status)
			return ErrCannotCancel
		}

		// CAS-условие на нетерминальный статус отсекает гонку
		// с конкурентным переходом
		if err := s.holdRepo.Cancel(txCtx, holdID, req.Reason); err != nil {
			if errors.Is(err, holdRepo.ErrTransitionConflict) {
				return holdRepo.ErrTransitionConflict
			}
			s.logger.Error("Cancel: repository error for hold id=%d: %v", holdID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Освобождаем слот - отмененный hold его больше не занимает
		if err := s.capacity.Release(txCtx, hold.Slot); err != nil {
			s.logger.Error("Cancel: failed to release slot %s for hold id=%d: %v", hold.Slot, holdID, err)
			return fmt.Errorf("%w: Cancel - failed to release slot: %v", ErrInternal, err)
		}

		return nil
	}

	err := s.txManager.Do(ctx, cancelTx)
	if errors.Is(err, holdRepo.ErrTransitionConflict) {
		// Проигранный CAS: свежее чтение увидит терминальный статус
		// и отклонит отмену, либо повтор пройдет
		s.logger.Warn("Cancel: hold id=%d changed status concurrently, retrying", holdID)
		err = s.txManager.Do(ctx, cancelTx)
		if errors.Is(err, holdRepo.ErrTransitionConflict) {
			err = ErrCannotCancel
		}
	}

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled hold id=%d with status=%s", holdID, domain.StatusCancelled)
	return nil
}
