package sign_agreement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	agreementRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/agreement"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
)

// UseCase use case подписания соглашения по токену из ссылки
type UseCase struct {
	holdRepo      HoldRepository
	agreementRepo AgreementRepository
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	agreementRepo AgreementRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:      holdRepo,
		agreementRepo: agreementRepo,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case подписания соглашения.
// Запись соглашения и переход статуса выполняются в одной транзакции:
// уникальный индекс (hold_id, agreement_type) гарантирует, что каждое
// соглашение подписывается не более одного раза. Повторное подписание
// того же типа - идемпотентный no-op: клиент, повторивший запрос,
// получает успех с данными уже существующей записи. Подписание
// payment_terms открывает фазу оплаты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SignAgreement: type=%s, signer=%s", req.AgreementType, req.SignerName)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SignAgreement: validation failed: %v", err)
		return nil, err
	}

	var (
		hold          *domain.SlotHold
		agreement     *domain.SignedAgreement
		alreadySigned bool
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Резолвим hold по токену с блокировкой строки
		h, err := uc.holdRepo.GetBySigningToken(txCtx, req.SigningToken)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotFound) {
				return ErrHoldNotFound
			}
			uc.logger.Error("SignAgreement: failed to resolve signing token: %v", err)
			return fmt.Errorf("%w: failed to resolve signing token: %v", ErrInternal, err)
		}

		// 3. Подписание допустимо только после отправки ссылки
		if !h.CanSign() {
			uc.logger.Warn("SignAgreement: hold id=%d is in status %s, signing is not allowed", h.ID, h.Status)
			return fmt.Errorf("%w: hold is in status %s", ErrHoldNotSignable, h.Status)
		}

		// 4. Дедлайн перепроверяется на момент подписания
		now := uc.timeProvider.Now()
		if h.DeadlinePassed(now) {
			uc.logger.Warn("SignAgreement: hold id=%d signing deadline passed at %s", h.ID, h.SigningDeadlineAt)
			return ErrDeadlinePassed
		}

		// 5. Записываем соглашение - дубликат отсекает уникальный индекс
		created, err := uc.agreementRepo.Create(txCtx, &domain.SignedAgreement{
			HoldID:        h.ID,
			AgreementType: req.AgreementType,
			SignerName:    req.SignerName,
			SignerEmail:   req.SignerEmail,
			SignedAt:      now,
		})
		if err != nil {
			if errors.Is(err, agreementRepo.ErrDuplicateAgreement) {
				// Повтор запроса на уже подписанный тип - возвращаем
				// существующую запись, статус hold'а не трогаем
				uc.logger.Info("SignAgreement: hold id=%d already has agreement %s, replay", h.ID, req.AgreementType)
				existing, err := uc.agreementRepo.GetByHoldAndType(txCtx, h.ID, req.AgreementType)
				if err != nil {
					uc.logger.Error("SignAgreement: failed to load existing agreement for hold id=%d: %v", h.ID, err)
					return fmt.Errorf("%w: failed to load existing agreement: %v", ErrInternal, err)
				}
				if existing == nil {
					return fmt.Errorf("%w: duplicate reported but agreement not found", ErrInternal)
				}
				hold = h
				agreement = existing
				alreadySigned = true
				return nil
			}
			uc.logger.Error("SignAgreement: failed to create agreement for hold id=%d: %v", h.ID, err)
			return fmt.Errorf("%w: failed to create agreement: %v", ErrInternal, err)
		}

		// 6. Продвигаем статус: payment_terms открывает фазу оплаты,
		// остальные соглашения фиксируют факт подписания
		to := domain.StatusAwaitingSignature
		if req.AgreementType.GatesPayment() {
			to = domain.StatusAwaitingPayment
		}

		if err := uc.holdRepo.MarkAgreementSigned(txCtx, h.ID, h.Status, to, now); err != nil {
			uc.logger.Error("SignAgreement: failed to advance hold id=%d to %s: %v", h.ID, to, err)
			return fmt.Errorf("%w: failed to advance hold status: %v", ErrInternal, err)
		}

		h.Status = to
		h.AgreementSignedAt = &now
		hold = h
		agreement = created

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("SignAgreement: hold id=%d, agreement %s signed, status=%s, alreadySigned=%t",
		hold.ID, agreement.AgreementType, hold.Status, alreadySigned)

	return &Response{
		AgreementID:   agreement.ID,
		HoldID:        hold.ID,
		HoldStatus:    string(hold.Status),
		AgreementType: string(agreement.AgreementType),
		SignedAt:      agreement.SignedAt,
		AlreadySigned: alreadySigned,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.SigningToken) == "" {
		return fmt.Errorf("%w: signingToken is required", ErrInvalidInput)
	}

	if _, err := domain.ParseAgreementType(string(req.AgreementType)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.SignerName) == "" {
		return fmt.Errorf("%w: signerName is required", ErrInvalidInput)
	}

	if !strings.Contains(req.SignerEmail, "@") {
		return fmt.Errorf("%w: signerEmail is invalid", ErrInvalidInput)
	}

	return nil
}
