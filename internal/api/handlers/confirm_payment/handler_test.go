package confirm_payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	confirmPayment "github.com/m04kA/SMC-HoldService/internal/usecase/confirm_payment"
)

// Фейки

type fakeUseCase struct {
	resp *confirmPayment.Response
	err  error
	got  *confirmPayment.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment-confirmed", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

// Тесты

func TestHandle_ProcessorPayloadIsAccepted(t *testing.T) {
	// Платежная система присылает holdId, paymentReference и amount
	uc := &fakeUseCase{resp: &confirmPayment.Response{
		HoldID:           21,
		Status:           "confirmed",
		PaymentReference: "pay-777",
		AgreementIDs:     []int64{1, 2},
	}}
	h := NewHandler(uc, nopLogger{})

	rec := post(h, `{"holdId": 21, "paymentReference": "pay-777", "amount": 15000}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(21), uc.got.HoldID)
	assert.Equal(t, "pay-777", uc.got.PaymentReference)

	var resp PaymentWebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(21), resp.HoldID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, []int64{1, 2}, resp.AgreementIDs)
	assert.False(t, resp.Replayed)
}

func TestHandle_MalformedBody(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})

	rec := post(h, `{"holdId": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got, "use case must not run on a malformed body")
}

func TestHandle_HoldNotFound(t *testing.T) {
	uc := &fakeUseCase{err: confirmPayment.ErrHoldNotFound}
	h := NewHandler(uc, nopLogger{})

	rec := post(h, `{"holdId": 99, "paymentReference": "pay-777", "amount": 15000}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_ReferenceMismatch(t *testing.T) {
	uc := &fakeUseCase{err: confirmPayment.ErrPaymentRefMismatch}
	h := NewHandler(uc, nopLogger{})

	rec := post(h, `{"holdId": 21, "paymentReference": "pay-222", "amount": 15000}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
