package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// Проверка, что Producer удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.EventProducer = (*Producer)(nil)

// writer — минимальный контракт над приёмником (kafka.Writer),
// чтобы легко подменять его моками в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer — публикация событий о смене статуса заказа.
// Ключ сообщения — order_id: события одного заказа попадают
// в одну партицию и сохраняют порядок.
type Producer struct {
	writer    writer
	topic     string
	log       ports.Logger
	closeOnce sync.Once
}

// ProducerConfig — параметры подключения к брокеру.
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// NewProducer — конструктор. RequireOne: подтверждение лидера партиции
// достаточно, полная репликация не блокирует запись.
func NewProducer(cfg *ProducerConfig, log ports.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: w, topic: cfg.Topic, log: log}
}

// PublishStatusChange — сериализует событие в JSON и отправляет в топик.
func (p *Producer) PublishStatusChange(ctx context.Context, event domain.StatusChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsFailed.WithLabelValues(p.topic).Inc()
		return fmt.Errorf("write status event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(p.topic).Inc()
	p.log.Infof(ctx, "status event published order_id=%s %s->%s", event.OrderID, event.OldStatus, event.NewStatus)
	return nil
}

// Close - закрывает writer. Вызывается при остановке приложения.
func (p *Producer) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
