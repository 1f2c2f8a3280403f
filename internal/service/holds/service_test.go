package holds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-HoldService/internal/service/holds/models"
)

// Фейки

type fakeHoldRepo struct {
	hold      *domain.SlotHold
	cancelErr error
	cancelled []string
}

func (f *fakeHoldRepo) GetByID(_ context.Context, id int64) (*domain.SlotHold, error) {
	if f.hold == nil || f.hold.ID != id {
		return nil, holdRepo.ErrHoldNotFound
	}
	copied := *f.hold
	return &copied, nil
}

func (f *fakeHoldRepo) Cancel(_ context.Context, id int64, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	if f.hold == nil || f.hold.ID != id || f.hold.IsTerminal() {
		return holdRepo.ErrTransitionConflict
	}
	f.hold.Status = domain.StatusCancelled
	f.hold.CancellationReason = &reason
	f.cancelled = append(f.cancelled, reason)
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

type fakeLedger struct {
	released []domain.SlotKey
}

func (f *fakeLedger) Release(_ context.Context, key domain.SlotKey) error {
	f.released = append(f.released, key)
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

// Хелперы

var testNow = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func activeHold() *domain.SlotHold {
	firstSent := testNow.Add(-time.Hour)
	hold := &domain.SlotHold{
		ID:            33,
		SigningToken:  "deadbeef",
		CustomerName:  "Анна Петрова",
		CustomerEmail: "anna@example.com",
		CustomerPhone: "+79001234567",
		Slot: domain.SlotKey{
			EventDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			TimeSlot:  "18:00",
			StationID: 3,
		},
		Status:            domain.StatusLinkSent,
		SigningDeadlineAt: testNow.Add(24 * time.Hour),
		PaymentDeadlineAt: testNow.Add(48 * time.Hour),
		ExpiresAt:         testNow.Add(72 * time.Hour),
		SendCount:         2,
		FirstSentAt:       &firstSent,
		CreatedAt:         testNow.Add(-2 * time.Hour),
		UpdatedAt:         testNow.Add(-time.Hour),
	}
	hold.ChannelsUsed.Add(domain.ChannelSMS)
	return hold
}

func newTestService(holds *fakeHoldRepo, agreements *fakeAgreementRepo, ledger *fakeLedger) *Service {
	return NewService(holds, agreements, ledger, fakeTxManager{}, nopLogger{})
}

// Тесты

func TestGetByID_Success(t *testing.T) {
	holds := &fakeHoldRepo{hold: activeHold()}
	agreements := &fakeAgreementRepo{agreements: []*domain.SignedAgreement{
		{ID: 1, HoldID: 33, AgreementType: domain.AgreementWaiver, SignerName: "Анна Петрова", SignerEmail: "anna@example.com", SignedAt: testNow},
		{ID: 2, HoldID: 99, AgreementType: domain.AgreementWaiver},
	}}
	svc := newTestService(holds, agreements, &fakeLedger{})

	resp, err := svc.GetByID(context.Background(), 33)

	assert.NoError(t, err)
	assert.Equal(t, int64(33), resp.ID)
	assert.Equal(t, string(domain.StatusLinkSent), resp.Status)
	assert.Equal(t, "2026-09-15", resp.EventDate)
	assert.Equal(t, "18:00", resp.TimeSlot)
	assert.Equal(t, int64(3), resp.StationID)
	assert.Equal(t, 2, resp.SendCount)
	assert.Equal(t, domain.MaxSendAttempts-2, resp.AttemptsLeft)
	assert.Equal(t, []string{"sms"}, resp.ChannelsUsed)
	assert.NotNil(t, resp.FirstSentAt)
	assert.Nil(t, resp.LastResentAt)

	// Только соглашения этого hold'а
	assert.Len(t, resp.Agreements, 1)
	assert.Equal(t, string(domain.AgreementWaiver), resp.Agreements[0].AgreementType)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&fakeHoldRepo{}, &fakeAgreementRepo{}, &fakeLedger{})

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestCancel_Success(t *testing.T) {
	holds := &fakeHoldRepo{hold: activeHold()}
	ledger := &fakeLedger{}
	svc := newTestService(holds, &fakeAgreementRepo{}, ledger)

	err := svc.Cancel(context.Background(), 33, &models.CancelHoldRequest{Reason: "клиент передумал"})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, holds.hold.Status)
	assert.Equal(t, "клиент передумал", *holds.hold.CancellationReason)
	assert.Equal(t, []domain.SlotKey{holds.hold.Slot}, ledger.released, "cancelled hold must free its slot")
}

func TestCancel_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.HoldStatus{
		domain.StatusConfirmed,
		domain.StatusExpired,
		domain.StatusCancelled,
	} {
		hold := activeHold()
		hold.Status = status

		ledger := &fakeLedger{}
		svc := newTestService(&fakeHoldRepo{hold: hold}, &fakeAgreementRepo{}, ledger)

		err := svc.Cancel(context.Background(), 33, &models.CancelHoldRequest{Reason: "клиент передумал"})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
		assert.Empty(t, ledger.released)
	}
}

func TestCancel_ConcurrentTerminalTransition(t *testing.T) {
	// Между чтением и CAS-обновлением hold ушел в терминальный статус
	holds := &fakeHoldRepo{hold: activeHold(), cancelErr: holdRepo.ErrTransitionConflict}
	ledger := &fakeLedger{}
	svc := newTestService(holds, &fakeAgreementRepo{}, ledger)

	err := svc.Cancel(context.Background(), 33, &models.CancelHoldRequest{Reason: "клиент передумал"})

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, ledger.released)
}

func TestCancel_EmptyReason(t *testing.T) {
	holds := &fakeHoldRepo{hold: activeHold()}
	svc := newTestService(holds, &fakeAgreementRepo{}, &fakeLedger{})

	err := svc.Cancel(context.Background(), 33, &models.CancelHoldRequest{Reason: "  "})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, domain.StatusLinkSent, holds.hold.Status)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&fakeHoldRepo{}, &fakeAgreementRepo{}, &fakeLedger{})

	err := svc.Cancel(context.Background(), 404, &models.CancelHoldRequest{Reason: "клиент передумал"})
	assert.ErrorIs(t, err, ErrHoldNotFound)
}
