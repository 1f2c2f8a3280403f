package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-HoldService/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует доменные события в RabbitMQ.
// Соединение устанавливается на каждую публикацию: событий мало
// (одно на подтвержденное бронирование), а переподключение после
// обрыва получается бесплатно.
type Publisher struct {
	url     string
	queue   string
	metrics *metrics.Metrics
	log     Logger
}

// NewPublisher создает новый publisher доменных событий.
// metrics может быть nil, если сбор метрик выключен.
func NewPublisher(url, queue string, m *metrics.Metrics, log Logger) *Publisher {
	return &Publisher{
		url:     url,
		queue:   queue,
		metrics: m,
		log:     log,
	}
}

// eventHoldConfirmed имя события в метриках
const eventHoldConfirmed = "hold.confirmed"

func (p *Publisher) observe(result string) {
	if p.metrics == nil {
		return
	}
	p.metrics.EventsPublished.WithLabelValues(eventHoldConfirmed, result).Inc()
}

// PublishHoldConfirmed публикует событие подтверждения hold'а.
// Сообщение персистентное, очередь durable. Ошибка публикации
// логируется и возвращается вызывающему; решение о судьбе потерянного
// события принимает вызывающая сторона.
func (p *Publisher) PublishHoldConfirmed(ctx context.Context, event HoldConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("Events: rabbitmq dial failed: %v", err)
		p.observe("error")
		return fmt.Errorf("events: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("Events: rabbitmq channel open failed: %v", err)
		p.observe("error")
		return fmt.Errorf("events: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Идемпотентное объявление очереди; durable, чтобы сообщения
	// пережили перезапуск брокера
	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		p.log.Error("Events: rabbitmq queue declare failed: %v", err)
		p.observe("error")
		return fmt.Errorf("events: queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Events: marshal event failed: %v", err)
		p.observe("error")
		return fmt.Errorf("events: marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.log.Error("Events: rabbitmq publish failed: %v", err)
		p.observe("error")
		return fmt.Errorf("events: publish: %w", err)
	}

	p.observe("success")
	p.log.Info("Events: published hold.confirmed for hold id=%d, event_id=%s", event.HoldID, event.EventID)
	return nil
}
