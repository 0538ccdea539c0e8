package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrders      = "storefront.orders"
	TypeOrderCreated = "order.created"
	publishTimeout   = 5 * time.Second
)

type OrderCreated struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Total     float64   `json:"total"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher writes order events to Kafka. A Publisher built from an empty
// broker list is disabled and every publish is a no-op, so callers never
// need to care whether a broker is configured.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokersCSV string) *Publisher {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &Publisher{}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrders,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Publisher) Enabled() bool { return p != nil && p.writer != nil }

// OrderPlaced publishes an order.created event. Best-effort: the order is
// already committed, so a broker failure is logged and swallowed.
func (p *Publisher) OrderPlaced(orderID, userID string, total float64) {
	if !p.Enabled() {
		return
	}
	evt := OrderCreated{
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		UserID:    userID,
		Total:     total,
		Type:      TypeOrderCreated,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[events] marshal order.created: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: data,
		Time:  evt.CreatedAt,
	}); err != nil {
		log.Printf("[events] publish order.created %s: %v", orderID, err)
	}
}

func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
