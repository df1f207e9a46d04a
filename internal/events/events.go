package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventTypeOrderPaid = "order.paid"

type OrderPaidItem struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
	Quantity        int    `json:"quantity"`
}

// OrderPaid is emitted once an order has been committed.
type OrderPaid struct {
	OrderID          string          `json:"order_id"`
	OrderNumber      string          `json:"order_number"`
	PaymentReference string          `json:"payment_reference"`
	CustomerEmail    string          `json:"customer_email"`
	AmountTotal      int64           `json:"amount_total"`
	Currency         string          `json:"currency"`
	DeliveryMethod   string          `json:"delivery_method"`
	Items            []OrderPaidItem `json:"items"`
	PaidAt           time.Time       `json:"paid_at"`
}

type Publisher interface {
	PublishOrderPaid(ctx context.Context, evt OrderPaid) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

// PublishOrderPaid keys messages by order number so every event for one order
// lands on the same partition.
func (p *KafkaPublisher) PublishOrderPaid(ctx context.Context, evt OrderPaid) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order paid event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPaid)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order paid event %s: %w", evt.OrderNumber, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPaid(_ context.Context, evt OrderPaid) error {
	log.Printf("order events disabled, dropping order=%s", evt.OrderNumber)
	return nil
}
