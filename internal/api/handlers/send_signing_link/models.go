package send_signing_link

import (
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	sendLink "github.com/m04kA/SMC-HoldService/internal/usecase/send_signing_link"
)

// SendLinkRequest HTTP request model
type SendLinkRequest struct {
	Channel string `json:"channel"` // "sms" или "email"
}

// SendLinkResponse HTTP response model
type SendLinkResponse struct {
	HoldID       int64    `json:"holdId"`
	Status       string   `json:"status"`
	SendCount    int      `json:"sendCount"`
	AttemptsLeft int      `json:"attemptsLeft"`
	Channels     []string `json:"channels"`
	Delivered    bool     `json:"delivered"`
	FirstSentAt  *string  `json:"firstSentAt,omitempty"`
	LastResentAt *string  `json:"lastResentAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SendLinkRequest) ToUseCaseRequest(holdID int64) *sendLink.Request {
	return &sendLink.Request{
		HoldID:  holdID,
		Channel: domain.NotifyChannel(r.Channel),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *sendLink.Response) *SendLinkResponse {
	out := &SendLinkResponse{
		HoldID:       resp.HoldID,
		Status:       resp.Status,
		SendCount:    resp.SendCount,
		AttemptsLeft: resp.AttemptsLeft,
		Channels:     resp.Channels,
		Delivered:    resp.Delivered,
	}
	if resp.FirstSentAt != nil {
		s := resp.FirstSentAt.Format(time.RFC3339)
		out.FirstSentAt = &s
	}
	if resp.LastResentAt != nil {
		s := resp.LastResentAt.Format(time.RFC3339)
		out.LastResentAt = &s
	}
	return out
}
