package domain

import (
	"fmt"
	"time"
)

// AgreementType enumerates the agreements a customer signs before paying
type AgreementType string

const (
	AgreementWaiver       AgreementType = "waiver"
	AgreementPaymentTerms AgreementType = "payment_terms"
)

// GatesPayment returns true for the agreement type that must be signed
// before the hold advances to awaiting_payment
func (t AgreementType) GatesPayment() bool {
	return t == AgreementPaymentTerms
}

// ParseAgreementType validates and converts a string into an AgreementType
func ParseAgreementType(s string) (AgreementType, error) {
	switch AgreementType(s) {
	case AgreementWaiver:
		return AgreementWaiver, nil
	case AgreementPaymentTerms:
		return AgreementPaymentTerms, nil
	default:
		return "", fmt.Errorf("unknown agreement type %q", s)
	}
}

// SignedAgreement is one customer's acceptance of one agreement type.
// Records are append-only: created exactly once per successful signing
// action and never updated or deleted. The pair (hold, agreement type)
// is unique.
type SignedAgreement struct {
	ID            int64
	HoldID        int64
	AgreementType AgreementType

	// Signer identity snapshot taken at signing time
	SignerName  string
	SignerEmail string

	SignedAt  time.Time
	CreatedAt time.Time
}
