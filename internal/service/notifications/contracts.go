package notifications

import (
	"context"

	"github.com/m04kA/SMC-HoldService/internal/integrations/emailgateway"
	"github.com/m04kA/SMC-HoldService/internal/integrations/smsgateway"
)

// SMSClient интерфейс клиента SMS-шлюза
type SMSClient interface {
	Send(ctx context.Context, phone, message string) (*smsgateway.SendResult, error)
}

// EmailClient интерфейс клиента email-шлюза
type EmailClient interface {
	Send(ctx context.Context, to, subject, body string) (*emailgateway.SendResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
