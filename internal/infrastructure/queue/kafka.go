package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/greenpath/logistics/internal/pkg/logger"
)

// metricsTask - полезная нагрузка сообщения очереди пересчета
type metricsTask struct {
	ShipmentID uuid.UUID `json:"shipment_id"`
}

// Writer определяет подмножество kafka.Writer, которое нам нужно
// Сужение до интерфейса делает диспетчер тестируемым
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Dispatcher ставит перевозку в очередь на пересчет метрик
// Доставка at-least-once: потребитель обязан быть идемпотентным
type Dispatcher interface {
	Dispatch(ctx context.Context, shipmentID uuid.UUID) error
	Close() error
}

// KafkaDispatcher - реализация Dispatcher поверх Kafka
type KafkaDispatcher struct {
	writer Writer
}

// NewKafkaDispatcher создает диспетчер, пишущий в заданный брокер/топик
func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaDispatcher{writer: w}
}

// NewKafkaDispatcherWithWriter позволяет подставить тестовый writer
func NewKafkaDispatcherWithWriter(w Writer) *KafkaDispatcher {
	return &KafkaDispatcher{writer: w}
}

// Dispatch публикует задание на пересчет метрик перевозки
// Ключ - id перевозки: задания одной перевозки попадают в одну партицию
func (d *KafkaDispatcher) Dispatch(ctx context.Context, shipmentID uuid.UUID) error {
	value, err := json.Marshal(metricsTask{ShipmentID: shipmentID})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(shipmentID.String()),
		Value: value,
	}
	return d.writer.WriteMessages(ctx, msg)
}

// Close закрывает writer
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// Handler - обработчик задания пересчета
type Handler func(ctx context.Context, shipmentID uuid.UUID) error

// Consumer читает задания пересчета из Kafka
// Несколько Consumer с одним groupID делят партиции между собой -
// так устроен пул воркеров
type Consumer struct {
	reader         *kafka.Reader
	handlerTimeout time.Duration
	logger         logger.Logger
}

// NewConsumer создает потребителя очереди пересчета
func NewConsumer(brokers []string, topic, groupID string, handlerTimeout time.Duration, logger logger.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		handlerTimeout: handlerTimeout,
		logger:         logger,
	}
}

// Run обрабатывает сообщения до отмены контекста
// Оффсет коммитится только после успешной обработки: упавшее задание
// будет доставлено повторно (at-least-once), обработчик идемпотентен
func (c *Consumer) Run(ctx context.Context, handler Handler) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error("Failed to fetch message", map[string]interface{}{
				"error": err.Error(),
			})
			time.Sleep(time.Second)
			continue
		}

		var task metricsTask
		if err := json.Unmarshal(msg.Value, &task); err != nil || task.ShipmentID == uuid.Nil {
			// Нечитаемое сообщение ретраем не лечится - коммитим и идем дальше
			c.logger.Error("Dropping malformed metrics task", map[string]interface{}{
				"offset": msg.Offset,
			})
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit offset", map[string]interface{}{
					"error": err.Error(),
				})
			}
			continue
		}

		handlerCtx, cancel := context.WithTimeout(ctx, c.handlerTimeout)
		err = handler(handlerCtx, task.ShipmentID)
		cancel()

		if err != nil {
			c.logger.Error("Metrics task failed, leaving for redelivery", map[string]interface{}{
				"shipment_id": task.ShipmentID,
				"offset":      msg.Offset,
				"error":       err.Error(),
			})
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit offset", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// Close закрывает reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
