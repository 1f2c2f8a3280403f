package domain

import (
	"time"
)

// HoldStatus represents the lifecycle state of a slot hold
type HoldStatus string

const (
	StatusPending           HoldStatus = "pending"
	StatusLinkSent          HoldStatus = "link_sent"
	StatusAwaitingSignature HoldStatus = "awaiting_signature"
	StatusAwaitingPayment   HoldStatus = "awaiting_payment"
	StatusConfirmed         HoldStatus = "confirmed"
	StatusExpired           HoldStatus = "expired"
	StatusCancelled         HoldStatus = "cancelled"
)

// SlotHold represents a customer's exclusive, time-boxed claim on one
// bookable slot. The hold walks a one-way state machine from pending to
// one of the terminal states; terminal holds are kept for audit and are
// never resurrected.
type SlotHold struct {
	ID           int64
	SigningToken string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Slot SlotKey

	Status HoldStatus

	ExpiresAt         time.Time
	SigningDeadlineAt time.Time
	PaymentDeadlineAt time.Time

	// Link delivery tracking
	FirstSentAt  *time.Time
	LastResentAt *time.Time
	SendCount    int
	ChannelsUsed ChannelSet

	AgreementSignedAt *time.Time
	PaymentReference  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the hold is in a terminal state
func (h *SlotHold) IsTerminal() bool {
	return h.Status == StatusConfirmed || h.Status == StatusExpired || h.Status == StatusCancelled
}

// IsActive returns true if the hold still occupies its slot as a hold
// (confirmed holds occupy the slot as a booking, not as a hold)
func (h *SlotHold) IsActive() bool {
	return !h.IsTerminal()
}

// CanSendLink returns true if the hold is in a state where the signing
// link may be sent or resent
func (h *SlotHold) CanSendLink() bool {
	return h.Status == StatusPending || h.Status == StatusLinkSent || h.Status == StatusAwaitingSignature
}

// CanSign returns true if an agreement may be recorded against the hold
func (h *SlotHold) CanSign() bool {
	return h.Status == StatusLinkSent || h.Status == StatusAwaitingSignature
}

// CanConfirmPayment returns true if the hold is waiting for payment
func (h *SlotHold) CanConfirmPayment() bool {
	return h.Status == StatusAwaitingPayment
}

// CanBeCancelled returns true if the hold can still be cancelled
func (h *SlotHold) CanBeCancelled() bool {
	return !h.IsTerminal()
}

// SendAttemptsLeft returns the number of signing-link send attempts left
func (h *SlotHold) SendAttemptsLeft() int {
	left := MaxSendAttempts - h.SendCount
	if left < 0 {
		return 0
	}
	return left
}

// RelevantDeadline returns the deadline that applies to the hold's current
// state: the signing deadline while the customer has not signed, the payment
// deadline while payment is pending. Terminal states have no deadline and
// return the zero time.
func (h *SlotHold) RelevantDeadline() time.Time {
	switch h.Status {
	case StatusPending, StatusLinkSent, StatusAwaitingSignature:
		return h.SigningDeadlineAt
	case StatusAwaitingPayment:
		return h.PaymentDeadlineAt
	default:
		return time.Time{}
	}
}

// DeadlinePassed returns true if the state-relevant deadline has passed
func (h *SlotHold) DeadlinePassed(now time.Time) bool {
	deadline := h.RelevantDeadline()
	if deadline.IsZero() {
		return false
	}
	return now.After(deadline)
}
