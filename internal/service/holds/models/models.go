package models

import (
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

// Request модели

// CancelHoldRequest запрос на отмену hold'а оператором
type CancelHoldRequest struct {
	Reason string `json:"reason"`
}

// Response модели

// HoldResponse ответ с полными данными hold'а для операторской панели
type HoldResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	EventDate string `json:"eventDate"` // "2026-09-15"
	TimeSlot  string `json:"timeSlot"`  // "18:00"
	StationID int64  `json:"stationId"`

	ExpiresAt         time.Time `json:"expiresAt"`
	SigningDeadlineAt time.Time `json:"signingDeadlineAt"`
	PaymentDeadlineAt time.Time `json:"paymentDeadlineAt"`

	// История отправки ссылки на подписание
	SendCount    int      `json:"sendCount"`
	AttemptsLeft int      `json:"attemptsLeft"`
	ChannelsUsed []string `json:"channelsUsed"`
	FirstSentAt  *string  `json:"firstSentAt,omitempty"`  // ISO 8601 format
	LastResentAt *string  `json:"lastResentAt,omitempty"` // ISO 8601 format

	AgreementSignedAt *string `json:"agreementSignedAt,omitempty"` // ISO 8601 format
	PaymentReference  *string `json:"paymentReference,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	Agreements []AgreementResponse `json:"agreements"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AgreementResponse данные одного подписанного соглашения
type AgreementResponse struct {
	ID            int64     `json:"id"`
	AgreementType string    `json:"agreementType"`
	SignerName    string    `json:"signerName"`
	SignerEmail   string    `json:"signerEmail"`
	SignedAt      time.Time `json:"signedAt"`
}

// Методы конвертации

// FromDomainHold конвертирует domain модель в DTO
func FromDomainHold(h *domain.SlotHold, agreements []*domain.SignedAgreement) *HoldResponse {
	if h == nil {
		return nil
	}

	channels := make([]string, 0, h.ChannelsUsed.Len())
	for _, c := range h.ChannelsUsed.Slice() {
		channels = append(channels, string(c))
	}

	resp := &HoldResponse{
		ID:                 h.ID,
		Status:             string(h.Status),
		CustomerName:       h.CustomerName,
		CustomerEmail:      h.CustomerEmail,
		CustomerPhone:      h.CustomerPhone,
		EventDate:          h.Slot.EventDate.Format(domain.DateFormat),
		TimeSlot:           h.Slot.TimeSlot.String(),
		StationID:          h.Slot.StationID,
		ExpiresAt:          h.ExpiresAt,
		SigningDeadlineAt:  h.SigningDeadlineAt,
		PaymentDeadlineAt:  h.PaymentDeadlineAt,
		SendCount:          h.SendCount,
		AttemptsLeft:       h.SendAttemptsLeft(),
		ChannelsUsed:       channels,
		FirstSentAt:        formatTimePtr(h.FirstSentAt),
		LastResentAt:       formatTimePtr(h.LastResentAt),
		AgreementSignedAt:  formatTimePtr(h.AgreementSignedAt),
		PaymentReference:   h.PaymentReference,
		CancellationReason: h.CancellationReason,
		CancelledAt:        formatTimePtr(h.CancelledAt),
		Agreements:         FromDomainAgreements(agreements),
		CreatedAt:          h.CreatedAt,
		UpdatedAt:          h.UpdatedAt,
	}

	return resp
}

// FromDomainAgreements конвертирует список соглашений в DTO
func FromDomainAgreements(agreements []*domain.SignedAgreement) []AgreementResponse {
	resp := make([]AgreementResponse, 0, len(agreements))
	for _, a := range agreements {
		if a == nil {
			continue
		}
		resp = append(resp, AgreementResponse{
			ID:            a.ID,
			AgreementType: string(a.AgreementType),
			SignerName:    a.SignerName,
			SignerEmail:   a.SignerEmail,
			SignedAt:      a.SignedAt,
		})
	}
	return resp
}

// formatTimePtr конвертирует *time.Time в строку ISO 8601
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
