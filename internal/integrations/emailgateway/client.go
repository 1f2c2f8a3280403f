package emailgateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SendResult результат попытки отправки
type SendResult struct {
	Delivered   bool
	ProviderRef string
}

// Client клиент для отправки писем со ссылкой на подписание через SMTP
type Client struct {
	client   *mail.Client
	from     string
	fromName string
	log      Logger
}

// NewClient создает SMTP клиент для email-шлюза
func NewClient(host string, port int, username, password, from, fromName string, log Logger) (*Client, error) {
	c, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username),
		mail.WithPassword(password),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize smtp client: %v", ErrInternal, err)
	}

	return &Client{
		client:   c,
		from:     from,
		fromName: fromName,
		log:      log,
	}, nil
}

// Send отправляет письмо со ссылкой на подписание.
// ProviderRef - сгенерированный Message-ID письма.
func (c *Client) Send(ctx context.Context, to, subject, body string) (*SendResult, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(c.fromName, c.from); err != nil {
		return nil, fmt.Errorf("%w: failed to set From address: %v", ErrInternal, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: failed to set To address: %v", ErrInternal, err)
	}

	messageID := uuid.NewString()
	msg.SetMessageIDWithValue(messageID)
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	return &SendResult{
		Delivered:   true,
		ProviderRef: messageID,
	}, nil
}
