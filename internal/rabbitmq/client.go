package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoArmGo/FoodDiary/internal/config"
	"github.com/GoArmGo/FoodDiary/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client представляет собой клиент RabbitMQ.
// Реализует ports.DiaryEventPublisher и ports.DiaryEventConsumer.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger

	// канал amqp не рассчитан на параллельную публикацию
	mu sync.Mutex
}

// NewClient подключается к RabbitMQ и объявляет очередь событий дневника
func NewClient(cfg config.RabbitMQ, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// очередь создается, если ее нет, повторное объявление ничего не меняет
	q, err := ch.QueueDeclare(
		cfg.RabbitMQQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("connected to RabbitMQ", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Error("failed to close RabbitMQ client", "error", err)
		return err
	}
	c.logger.Info("RabbitMQ connection closed")
	return nil
}

// PublishDiaryEvent публикует событие дневника в очередь
func (c *Client) PublishDiaryEvent(ctx context.Context, event payloads.DiaryEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	c.mu.Lock()
	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Type:         event.Kind,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Debug("diary event published", "queue", c.queue.Name, "event_id", event.ID, "kind", event.Kind)
	return nil
}

// StartConsumingDiaryEvents регистрирует потребителя и обрабатывает сообщения
// в отдельной горутине, пока не отменен ctx или не закрыт канал.
func (c *Client) StartConsumingDiaryEvents(ctx context.Context, handler func(context.Context, payloads.DiaryEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				handleDelivery(ctx, msg, handler, c.logger)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// handleDelivery декодирует одно сообщение и подтверждает его.
// Битое сообщение отбрасывается. Ошибка обработчика возвращает сообщение
// в очередь один раз, повторная неудача отбрасывает его.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.DiaryEvent) error, logger *slog.Logger) {
	var event payloads.DiaryEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("failed to unmarshal diary event", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("failed to nack malformed message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		requeue := !msg.Redelivered
		logger.Error("failed to process diary event",
			"event_id", event.ID,
			"kind", event.Kind,
			"requeue", requeue,
			"error", err,
		)
		if err := msg.Nack(false, requeue); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("failed to ack message", "event_id", event.ID, "error", err)
		return
	}
	logger.Debug("diary event processed", "event_id", event.ID, "kind", event.Kind)
}
