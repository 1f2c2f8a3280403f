package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotHold_IsTerminal(t *testing.T) {
	terminal := []HoldStatus{StatusConfirmed, StatusExpired, StatusCancelled}
	active := []HoldStatus{StatusPending, StatusLinkSent, StatusAwaitingSignature, StatusAwaitingPayment}

	for _, status := range terminal {
		h := &SlotHold{Status: status}
		assert.True(t, h.IsTerminal(), "status %s must be terminal", status)
		assert.False(t, h.IsActive())
		assert.False(t, h.CanBeCancelled())
	}

	for _, status := range active {
		h := &SlotHold{Status: status}
		assert.False(t, h.IsTerminal(), "status %s must not be terminal", status)
		assert.True(t, h.IsActive())
		assert.True(t, h.CanBeCancelled())
	}
}

func TestSlotHold_CanSendLink(t *testing.T) {
	sendable := []HoldStatus{StatusPending, StatusLinkSent, StatusAwaitingSignature}
	for _, status := range sendable {
		h := &SlotHold{Status: status}
		assert.True(t, h.CanSendLink(), "status %s must allow sending", status)
	}

	notSendable := []HoldStatus{StatusAwaitingPayment, StatusConfirmed, StatusExpired, StatusCancelled}
	for _, status := range notSendable {
		h := &SlotHold{Status: status}
		assert.False(t, h.CanSendLink(), "status %s must not allow sending", status)
	}
}

func TestSlotHold_CanSign(t *testing.T) {
	assert.False(t, (&SlotHold{Status: StatusPending}).CanSign())
	assert.True(t, (&SlotHold{Status: StatusLinkSent}).CanSign())
	assert.True(t, (&SlotHold{Status: StatusAwaitingSignature}).CanSign())
	assert.False(t, (&SlotHold{Status: StatusAwaitingPayment}).CanSign())
	assert.False(t, (&SlotHold{Status: StatusConfirmed}).CanSign())
}

func TestSlotHold_SendAttemptsLeft(t *testing.T) {
	assert.Equal(t, MaxSendAttempts, (&SlotHold{SendCount: 0}).SendAttemptsLeft())
	assert.Equal(t, 2, (&SlotHold{SendCount: 3}).SendAttemptsLeft())
	assert.Equal(t, 0, (&SlotHold{SendCount: MaxSendAttempts}).SendAttemptsLeft())
	// Счетчик выше потолка не уводит остаток в минус
	assert.Equal(t, 0, (&SlotHold{SendCount: MaxSendAttempts + 3}).SendAttemptsLeft())
}

func TestSlotHold_RelevantDeadline(t *testing.T) {
	signing := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	payment := time.Date(2026, 9, 3, 12, 0, 0, 0, time.UTC)

	h := &SlotHold{
		SigningDeadlineAt: signing,
		PaymentDeadlineAt: payment,
	}

	for _, status := range []HoldStatus{StatusPending, StatusLinkSent, StatusAwaitingSignature} {
		h.Status = status
		assert.Equal(t, signing, h.RelevantDeadline(), "signing phase status %s", status)
	}

	h.Status = StatusAwaitingPayment
	assert.Equal(t, payment, h.RelevantDeadline())

	for _, status := range []HoldStatus{StatusConfirmed, StatusExpired, StatusCancelled} {
		h.Status = status
		assert.True(t, h.RelevantDeadline().IsZero(), "terminal status %s has no deadline", status)
	}
}

func TestSlotHold_DeadlinePassed(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	h := &SlotHold{
		Status:            StatusLinkSent,
		SigningDeadlineAt: deadline,
	}

	assert.False(t, h.DeadlinePassed(deadline.Add(-time.Minute)))
	// Ровно в дедлайн - еще не просрочен
	assert.False(t, h.DeadlinePassed(deadline))
	assert.True(t, h.DeadlinePassed(deadline.Add(time.Second)))

	// Терминальный hold не бывает просроченным
	h.Status = StatusCancelled
	assert.False(t, h.DeadlinePassed(deadline.Add(time.Hour)))
}
