package confirm_payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	"github.com/m04kA/SMC-HoldService/internal/events"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
)

// Фейки

type fakeHoldRepo struct {
	hold *domain.SlotHold

	// Сценарий проигранного CAS: конкурентный webhook успевает
	// подтвердить hold этим же референсом первым
	confirmConflicts int
}

func (f *fakeHoldRepo) GetByID(_ context.Context, id int64) (*domain.SlotHold, error) {
	if f.hold == nil || f.hold.ID != id {
		return nil, holdRepo.ErrHoldNotFound
	}
	copied := *f.hold
	return &copied, nil
}

func (f *fakeHoldRepo) ConfirmPayment(_ context.Context, id int64, paymentReference string) error {
	if f.confirmConflicts > 0 {
		f.confirmConflicts--
		f.hold.Status = domain.StatusConfirmed
		f.hold.PaymentReference = &paymentReference
		return holdRepo.ErrTransitionConflict
	}
	if f.hold == nil || f.hold.ID != id || f.hold.Status != domain.StatusAwaitingPayment {
		return holdRepo.ErrTransitionConflict
	}
	f.hold.Status = domain.StatusConfirmed
	f.hold.PaymentReference = &paymentReference
	return nil
}

type fakeAgreementRepo struct {
	agreements []*domain.SignedAgreement
}

func (f *fakeAgreementRepo) ListByHoldID(_ context.Context, holdID int64) ([]*domain.SignedAgreement, error) {
	var out []*domain.SignedAgreement
	for _, a := range f.agreements {
		if a.HoldID == holdID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []events.HoldConfirmedEvent
	err       error
}

func (f *fakePublisher) PublishHoldConfirmed(_ context.Context, event events.HoldConfirmedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
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

func payableHold() *domain.SlotHold {
	signedAt := testNow.Add(-time.Hour)
	return &domain.SlotHold{
		ID:            21,
		CustomerName:  "Анна Петрова",
		CustomerEmail: "anna@example.com",
		CustomerPhone: "+79001234567",
		Slot: domain.SlotKey{
			EventDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			TimeSlot:  "18:00",
			StationID: 3,
		},
		Status:            domain.StatusAwaitingPayment,
		SigningDeadlineAt: testNow.Add(-2 * time.Hour),
		PaymentDeadlineAt: testNow.Add(24 * time.Hour),
		AgreementSignedAt: &signedAt,
	}
}

func newTestUseCase(holds *fakeHoldRepo, agreements *fakeAgreementRepo, pub *fakePublisher) *UseCase {
	uc := NewUseCase(holds, agreements, pub, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &stubClock{now: testNow}
	return uc
}

// Тесты

func TestExecute_ConfirmsAndPublishesOnce(t *testing.T) {
	holds := &fakeHoldRepo{hold: payableHold()}
	agreements := &fakeAgreementRepo{agreements: []*domain.SignedAgreement{
		{ID: 1, HoldID: 21, AgreementType: domain.AgreementWaiver},
		{ID: 2, HoldID: 21, AgreementType: domain.AgreementPaymentTerms},
	}}
	pub := &fakePublisher{}
	uc := newTestUseCase(holds, agreements, pub)

	resp, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})

	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "pay-777", resp.PaymentReference)
	assert.Equal(t, []int64{1, 2}, resp.AgreementIDs)
	assert.False(t, resp.Replayed)

	assert.Len(t, pub.published, 1)
	event := pub.published[0]
	assert.Equal(t, int64(21), event.HoldID)
	assert.Equal(t, "2026-09-15", event.EventDate)
	assert.Equal(t, "18:00", event.TimeSlot)
	assert.Equal(t, []int64{1, 2}, event.AgreementIDs)
	assert.Equal(t, "pay-777", event.PaymentReference)
	assert.NotEmpty(t, event.EventID)
}

func TestExecute_ReplayedWebhookIsIdempotent(t *testing.T) {
	holds := &fakeHoldRepo{hold: payableHold()}
	agreements := &fakeAgreementRepo{agreements: []*domain.SignedAgreement{
		{ID: 1, HoldID: 21, AgreementType: domain.AgreementPaymentTerms},
	}}
	pub := &fakePublisher{}
	uc := newTestUseCase(holds, agreements, pub)

	first, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})
	assert.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})
	assert.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, string(domain.StatusConfirmed), second.Status)
	assert.Equal(t, first.AgreementIDs, second.AgreementIDs)

	assert.Len(t, pub.published, 1, "replay must not publish a second event")
}

func TestExecute_DifferentReferenceOnConfirmedHold(t *testing.T) {
	hold := payableHold()
	hold.Status = domain.StatusConfirmed
	ref := "pay-111"
	hold.PaymentReference = &ref

	uc := newTestUseCase(&fakeHoldRepo{hold: hold}, &fakeAgreementRepo{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-222"})
	assert.ErrorIs(t, err, ErrPaymentRefMismatch)
}

func TestExecute_NotAwaitingPayment(t *testing.T) {
	for _, status := range []domain.HoldStatus{
		domain.StatusPending,
		domain.StatusLinkSent,
		domain.StatusAwaitingSignature,
		domain.StatusExpired,
		domain.StatusCancelled,
	} {
		hold := payableHold()
		hold.Status = status

		pub := &fakePublisher{}
		uc := newTestUseCase(&fakeHoldRepo{hold: hold}, &fakeAgreementRepo{}, pub)

		_, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})
		assert.ErrorIs(t, err, ErrHoldNotPayable, "status %s", status)
		assert.Empty(t, pub.published)
	}
}

func TestExecute_PaymentDeadlinePassed(t *testing.T) {
	hold := payableHold()
	hold.PaymentDeadlineAt = testNow.Add(-time.Minute)

	holds := &fakeHoldRepo{hold: hold}
	pub := &fakePublisher{}
	uc := newTestUseCase(holds, &fakeAgreementRepo{}, pub)

	_, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})

	// Дедлайн перепроверяется в момент подтверждения
	assert.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Equal(t, domain.StatusAwaitingPayment, holds.hold.Status)
	assert.Empty(t, pub.published)
}

func TestExecute_LostRaceResolvesAsReplay(t *testing.T) {
	holds := &fakeHoldRepo{hold: payableHold(), confirmConflicts: 1}
	pub := &fakePublisher{}
	uc := newTestUseCase(holds, &fakeAgreementRepo{}, pub)

	resp, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})

	// Повтор со свежим состоянием видит hold уже подтвержденным тем же
	// референсом - победитель гонки опубликовал событие, мы нет
	assert.NoError(t, err)
	assert.True(t, resp.Replayed)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Empty(t, pub.published)
}

func TestExecute_PublishFailureDoesNotFailConfirmation(t *testing.T) {
	holds := &fakeHoldRepo{hold: payableHold()}
	pub := &fakePublisher{err: errors.New("broker down")}
	uc := newTestUseCase(holds, &fakeAgreementRepo{}, pub)

	resp, err := uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "pay-777"})

	assert.NoError(t, err, "confirmation is durable even if the event is lost")
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, domain.StatusConfirmed, holds.hold.Status)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(&fakeHoldRepo{hold: payableHold()}, &fakeAgreementRepo{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{HoldID: 0, PaymentReference: "pay-777"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{HoldID: 21, PaymentReference: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_HoldNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeHoldRepo{}, &fakeAgreementRepo{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{HoldID: 99, PaymentReference: "pay-777"})
	assert.ErrorIs(t, err, ErrHoldNotFound)
}
