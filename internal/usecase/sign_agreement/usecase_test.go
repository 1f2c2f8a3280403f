package sign_agreement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	agreementRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/agreement"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
)

// Фейки

type fakeHoldRepo struct {
	hold *domain.SlotHold
}

func (f *fakeHoldRepo) GetBySigningToken(_ context.Context, token string) (*domain.SlotHold, error) {
	if f.hold == nil || f.hold.SigningToken != token {
		return nil, holdRepo.ErrHoldNotFound
	}
	copied := *f.hold
	return &copied, nil
}

func (f *fakeHoldRepo) MarkAgreementSigned(_ context.Context, id int64, from, to domain.HoldStatus, signedAt time.Time) error {
	if f.hold == nil || f.hold.ID != id || f.hold.Status != from {
		return holdRepo.ErrTransitionConflict
	}
	f.hold.Status = to
	f.hold.AgreementSignedAt = &signedAt
	return nil
}

type fakeAgreementRepo struct {
	nextID  int64
	created []*domain.SignedAgreement
}

func (f *fakeAgreementRepo) Create(_ context.Context, a *domain.SignedAgreement) (*domain.SignedAgreement, error) {
	for _, existing := range f.created {
		if existing.HoldID == a.HoldID && existing.AgreementType == a.AgreementType {
			return nil, agreementRepo.ErrDuplicateAgreement
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = a.SignedAt
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAgreementRepo) GetByHoldAndType(_ context.Context, holdID int64, agreementType domain.AgreementType) (*domain.SignedAgreement, error) {
	for _, existing := range f.created {
		if existing.HoldID == holdID && existing.AgreementType == agreementType {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

// Хелперы

var testNow = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

const testToken = "deadbeefcafe"

func signableHold() *domain.SlotHold {
	return &domain.SlotHold{
		ID:                11,
		SigningToken:      testToken,
		Status:            domain.StatusLinkSent,
		SigningDeadlineAt: testNow.Add(24 * time.Hour),
		PaymentDeadlineAt: testNow.Add(48 * time.Hour),
	}
}

func newTestUseCase(holds *fakeHoldRepo, agreements *fakeAgreementRepo) *UseCase {
	uc := NewUseCase(holds, agreements, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &stubClock{now: testNow}
	return uc
}

func signRequest(at domain.AgreementType) *Request {
	return &Request{
		SigningToken:  testToken,
		AgreementType: at,
		SignerName:    "Анна Петрова",
		SignerEmail:   "anna@example.com",
	}
}

// Тесты

func TestExecute_WaiverAdvancesToAwaitingSignature(t *testing.T) {
	holds := &fakeHoldRepo{hold: signableHold()}
	agreements := &fakeAgreementRepo{}
	uc := newTestUseCase(holds, agreements)

	resp, err := uc.Execute(context.Background(), signRequest(domain.AgreementWaiver))

	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.AgreementID)
	assert.Equal(t, int64(11), resp.HoldID)
	assert.Equal(t, string(domain.StatusAwaitingSignature), resp.HoldStatus)
	assert.Equal(t, testNow, resp.SignedAt)
	assert.Equal(t, domain.StatusAwaitingSignature, holds.hold.Status)
}

func TestExecute_PaymentTermsOpensPaymentPhase(t *testing.T) {
	holds := &fakeHoldRepo{hold: signableHold()}
	agreements := &fakeAgreementRepo{}
	uc := newTestUseCase(holds, agreements)

	resp, err := uc.Execute(context.Background(), signRequest(domain.AgreementPaymentTerms))

	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusAwaitingPayment), resp.HoldStatus)
	assert.Equal(t, domain.StatusAwaitingPayment, holds.hold.Status)
}

func TestExecute_FullSigningSequence(t *testing.T) {
	holds := &fakeHoldRepo{hold: signableHold()}
	agreements := &fakeAgreementRepo{}
	uc := newTestUseCase(holds, agreements)

	// Сначала waiver, затем payment_terms
	_, err := uc.Execute(context.Background(), signRequest(domain.AgreementWaiver))
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingSignature, holds.hold.Status)

	resp, err := uc.Execute(context.Background(), signRequest(domain.AgreementPaymentTerms))
	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusAwaitingPayment), resp.HoldStatus)
	assert.Len(t, agreements.created, 2)
}

func TestExecute_DuplicateAgreementTypeIsIdempotent(t *testing.T) {
	holds := &fakeHoldRepo{hold: signableHold()}
	agreements := &fakeAgreementRepo{}
	uc := newTestUseCase(holds, agreements)

	first, err := uc.Execute(context.Background(), signRequest(domain.AgreementWaiver))
	assert.NoError(t, err)
	assert.False(t, first.AlreadySigned)

	// Повтор запроса - no-op успех с данными существующей записи
	second, err := uc.Execute(context.Background(), signRequest(domain.AgreementWaiver))
	assert.NoError(t, err)
	assert.True(t, second.AlreadySigned)
	assert.Equal(t, first.AgreementID, second.AgreementID)
	assert.Len(t, agreements.created, 1, "replay must not add a record")
	assert.Equal(t, domain.StatusAwaitingSignature, holds.hold.Status, "replay must not move the status")
}

func TestExecute_UnknownToken(t *testing.T) {
	holds := &fakeHoldRepo{hold: signableHold()}
	uc := newTestUseCase(holds, &fakeAgreementRepo{})

	req := signRequest(domain.AgreementWaiver)
	req.SigningToken = "wrong-token"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestExecute_NotSignableStatus(t *testing.T) {
	for _, status := range []domain.HoldStatus{
		domain.StatusPending,
		domain.StatusAwaitingPayment,
		domain.StatusConfirmed,
		domain.StatusExpired,
		domain.StatusCancelled,
	} {
		hold := signableHold()
		hold.Status = status

		holds := &fakeHoldRepo{hold: hold}
		uc := newTestUseCase(holds, &fakeAgreementRepo{})

		_, err := uc.Execute(context.Background(), signRequest(domain.AgreementWaiver))
		assert.ErrorIs(t, err, ErrHoldNotSignable, "status %s", status)
	}
}

func TestExecute_SigningDeadlinePassed(t *testing.T) {
	hold := signableHold()
	hold.SigningDeadlineAt = testNow.Add(-time.Minute)

	holds := &fakeHoldRepo{hold: hold}
	agreements := &fakeAgreementRepo{}
	uc := newTestUseCase(holds, agreements)

	_, err := uc.Execute(context.Background(), signRequest(domain.AgreementWaiver))

	assert.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Empty(t, agreements.created)
	assert.Equal(t, domain.StatusLinkSent, holds.hold.Status)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"empty token", func(r *Request) { r.SigningToken = " " }},
		{"unknown agreement type", func(r *Request) { r.AgreementType = "nda" }},
		{"empty signer name", func(r *Request) { r.SignerName = "" }},
		{"bad signer email", func(r *Request) { r.SignerEmail = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeHoldRepo{hold: signableHold()}, &fakeAgreementRepo{})

			req := signRequest(domain.AgreementWaiver)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
