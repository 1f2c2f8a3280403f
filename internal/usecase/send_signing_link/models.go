package send_signing_link

import (
	"time"

	"github.com/m04kA/SMC-HoldService/internal/domain"
)

// Request модель запроса на отправку ссылки на подписание
type Request struct {
	HoldID  int64                // ID hold'а
	Channel domain.NotifyChannel // Канал доставки (sms или email)
}

// Response модель ответа после учета попытки отправки
type Response struct {
	HoldID       int64      // ID hold'а
	Status       string     // Статус hold'а после отправки
	SendCount    int        // Счетчик попыток отправки
	AttemptsLeft int        // Оставшиеся попытки
	Channels     []string   // Использованные каналы (дедуплицированные)
	Delivered    bool       // Подтвердил ли шлюз доставку
	ProviderRef  string     // Идентификатор сообщения у провайдера
	FirstSentAt  *time.Time // Время первой отправки
	LastResentAt *time.Time // Время последней повторной отправки
}
