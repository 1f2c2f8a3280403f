package create_hold

import (
	"time"

	"github.com/m04kA/SMC-HoldService/pkg/types"
)

// Request модель запроса на создание hold'а
type Request struct {
	CustomerName  string           // Имя заказчика
	CustomerEmail string           // Email заказчика
	CustomerPhone string           // Телефон заказчика
	EventDate     time.Time        // Дата мероприятия (без времени)
	TimeSlot      types.TimeString // Временной слот (например, "18:00")
	StationID     int64            // ID станции кейтеринга
}

// Response модель ответа с созданным hold'ом
type Response struct {
	ID           int64            // ID созданного hold'а
	SigningToken string           // Токен для ссылки на подписание
	Status       string           // Статус hold'а (pending)
	EventDate    time.Time        // Дата мероприятия
	TimeSlot     types.TimeString // Временной слот
	StationID    int64            // ID станции

	ExpiresAt         time.Time // Общий срок жизни hold'а
	SigningDeadlineAt time.Time // Дедлайн подписания договора
	PaymentDeadlineAt time.Time // Дедлайн оплаты депозита

	CreatedAt time.Time // Время создания
}

// Deadlines смещения дедлайнов от момента создания hold'а
type Deadlines struct {
	Signing time.Duration
	Payment time.Duration
	Expiry  time.Duration
}
