package domain

// MaxSendAttempts is the hard ceiling on signing-link send attempts per
// hold. The counter counts attempts, not confirmed deliveries.
const MaxSendAttempts = 5

// SigningTokenBytes is the entropy of the opaque signing token (hex-encoded
// to twice this length)
const SigningTokenBytes = 32

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список терминальных статусов hold'а.
// Используется в запросах для фильтрации активных hold'ов.
var TerminalStatuses = []HoldStatus{
	StatusConfirmed,
	StatusExpired,
	StatusCancelled,
}

// SigningPhaseStatuses статусы, в которых действует дедлайн подписания
var SigningPhaseStatuses = []HoldStatus{
	StatusPending,
	StatusLinkSent,
	StatusAwaitingSignature,
}
