package create_hold

import (
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	createHold "github.com/m04kA/SMC-HoldService/internal/usecase/create_hold"
	"github.com/m04kA/SMC-HoldService/pkg/types"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	EventDate     string `json:"eventDate"` // "2026-09-15"
	TimeSlot      string `json:"timeSlot"`  // "18:00"
	StationID     int64  `json:"stationId"`
}

// HoldResponse HTTP response model
type HoldResponse struct {
	ID                int64  `json:"id"`
	SigningToken      string `json:"signingToken"`
	Status            string `json:"status"`
	EventDate         string `json:"eventDate"`
	TimeSlot          string `json:"timeSlot"`
	StationID         int64  `json:"stationId"`
	ExpiresAt         string `json:"expiresAt"`
	SigningDeadlineAt string `json:"signingDeadlineAt"`
	PaymentDeadlineAt string `json:"paymentDeadlineAt"`
	CreatedAt         string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest() (*createHold.Request, error) {
	// Парсим дату
	eventDate, err := time.Parse(domain.DateFormat, r.EventDate)
	if err != nil {
		return nil, err
	}

	// Парсим время слота
	timeSlot, err := types.NewTimeStringFromString(r.TimeSlot)
	if err != nil {
		return nil, err
	}

	return &createHold.Request{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		EventDate:     eventDate,
		TimeSlot:      timeSlot,
		StationID:     r.StationID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		ID:                resp.ID,
		SigningToken:      resp.SigningToken,
		Status:            resp.Status,
		EventDate:         resp.EventDate.Format(domain.DateFormat),
		TimeSlot:          resp.TimeSlot.String(),
		StationID:         resp.StationID,
		ExpiresAt:         resp.ExpiresAt.Format(time.RFC3339),
		SigningDeadlineAt: resp.SigningDeadlineAt.Format(time.RFC3339),
		PaymentDeadlineAt: resp.PaymentDeadlineAt.Format(time.RFC3339),
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
	}
}
