package notifications

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

const emailSubject = "Подтверждение бронирования кейтеринга"

// DeliveryResult результат попытки доставки ссылки на подписание
type DeliveryResult struct {
	Delivered   bool
	ProviderRef string
}

// Gateway единая точка отправки ссылки на подписание по выбранному каналу
type Gateway struct {
	sms    SMSClient
	email  EmailClient
	logger Logger
}

// NewGateway создает новый экземпляр шлюза уведомлений
func NewGateway(sms SMSClient, email EmailClient, logger Logger) *Gateway {
	return &Gateway{
		sms:    sms,
		email:  email,
		logger: logger,
	}
}

// Send доставляет ссылку на подписание по указанному каналу.
// Возврат без ошибки означает, что попытка отправки состоялась,
// независимо от значения Delivered.
func (g *Gateway) Send(ctx context.Context, channel domain.NotifyChannel, hold *domain.SlotHold, signingLink string) (*DeliveryResult, error) {
	switch channel {
	case domain.ChannelSMS:
		return g.sendSMS(ctx, hold, signingLink)
	case domain.ChannelEmail:
		return g.sendEmail(ctx, hold, signingLink)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChannel, channel)
	}
}

func (g *Gateway) sendSMS(ctx context.Context, hold *domain.SlotHold, signingLink string) (*DeliveryResult, error) {
	message := fmt.Sprintf("Ваше бронирование на %s %s ждет подписания договора: %s",
		hold.Slot.EventDate.Format(domain.DateFormat), hold.Slot.TimeSlot, signingLink)

	result, err := g.sms.Send(ctx, hold.CustomerPhone, message)
	if err != nil {
		g.logger.Error("Notifications: SMS delivery failed for hold id=%d: %v", hold.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	g.logger.Info("Notifications: SMS sent for hold id=%d, delivered=%t, provider_ref=%s",
		hold.ID, result.Delivered, result.ProviderRef)

	return &DeliveryResult{Delivered: result.Delivered, ProviderRef: result.ProviderRef}, nil
}

func (g *Gateway) sendEmail(ctx context.Context, hold *domain.SlotHold, signingLink string) (*DeliveryResult, error) {
	body := fmt.Sprintf(
		"Здравствуйте, %s!\n\n"+
			"Вы начали бронирование кейтеринга на %s, слот %s.\n"+
			"Для завершения подпишите договор по ссылке:\n%s\n\n"+
			"Ссылка действует до %s.",
		hold.CustomerName,
		hold.Slot.EventDate.Format(domain.DateFormat),
		hold.Slot.TimeSlot,
		signingLink,
		hold.SigningDeadlineAt.Format("2006-01-02 15:04"),
	)

	result, err := g.email.Send(ctx, hold.CustomerEmail, emailSubject, body)
	if err != nil {
		g.logger.Error("Notifications: email delivery failed for hold id=%d: %v", hold.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	g.logger.Info("Notifications: email sent for hold id=%d, provider_ref=%s", hold.ID, result.ProviderRef)

	return &DeliveryResult{Delivered: result.Delivered, ProviderRef: result.ProviderRef}, nil
}
