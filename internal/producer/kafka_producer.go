package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// messageWriter: часть kafka.Writer, которая нужна продюсеру.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderEventProducer struct {
	writer  messageWriter
	timeout time.Duration
}

func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	return &OrderEventProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		timeout: 5 * time.Second,
	}
}

// envelope: общий конверт событий заказа в топике.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (p *OrderEventProducer) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return p.send(ctx, e.OrderID.String(), EventOrderCreated, e)
}

func (p *OrderEventProducer) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	return p.send(ctx, e.OrderID.String(), EventOrderStatusChanged, e)
}

func (p *OrderEventProducer) send(ctx context.Context, key, typ string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	value, err := json.Marshal(envelope{Type: typ, Payload: payload})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(typ)},
		},
	})
}

func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}

// NopBus: шина событий, когда Kafka выключена.
type NopBus struct{}

func (NopBus) PublishOrderCreated(context.Context, service.OrderCreatedEvent) error { return nil }

func (NopBus) PublishOrderStatusChanged(context.Context, service.OrderStatusChangedEvent) error {
	return nil
}

var (
	_ service.EventBus = (*OrderEventProducer)(nil)
	_ service.EventBus = NopBus{}
)
