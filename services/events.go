package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"settleup-backend/config"
	"settleup-backend/models"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventSettlementConfirmed = "settlement.confirmed"
	EventSettlementPaid      = "settlement.paid"
)

// SettlementMessage is published once per settlement row. Consumers look the
// expense up by ID if they need more than what is carried here.
type SettlementMessage struct {
	Event        string    `json:"event"`
	SettlementID uuid.UUID `json:"settlement_id"`
	ExpenseID    uuid.UUID `json:"expense_id"`
	From         string    `json:"from"`
	FromIndex    int       `json:"from_index"`
	To           string    `json:"to"`
	ToIndex      int       `json:"to_index"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Strategy     string    `json:"strategy"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewSettlementMessage(event string, s models.Settlement) *SettlementMessage {
	return &SettlementMessage{
		Event:        event,
		SettlementID: s.ID,
		ExpenseID:    s.ExpenseID,
		From:         s.FromName,
		FromIndex:    s.FromIndex,
		To:           s.ToName,
		ToIndex:      s.ToIndex,
		Amount:       s.Amount,
		Currency:     s.Currency,
		Strategy:     s.Strategy,
		Status:       s.Status,
		Timestamp:    time.Now().UTC(),
	}
}

func (m *SettlementMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SettlementMessageFromJSON(data []byte) (*SettlementMessage, error) {
	var msg SettlementMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EventPublisher writes settlement events to a durable topic exchange.
// A nil publisher drops every event.
type EventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var publisher *EventPublisher

func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &EventPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// InitEventPublisher connects when AMQP_URL is set. Failures are logged and
// leave publishing disabled.
func InitEventPublisher() {
	if config.AppConfig.AMQPURL == "" {
		log.Println("⚠️  AMQP_URL not set, settlement events disabled")
		return
	}

	p, err := NewEventPublisher(config.AppConfig.AMQPURL, config.AppConfig.AMQPExchange)
	if err != nil {
		log.Println("⚠️  RabbitMQ not available, settlement events disabled:", err)
		return
	}

	publisher = p
	log.Printf("✅ RabbitMQ connected, publishing to exchange %s", config.AppConfig.AMQPExchange)
}

func GetEventPublisher() *EventPublisher {
	return publisher
}

func (p *EventPublisher) Publish(ctx context.Context, msg *SettlementMessage) error {
	if p == nil {
		return nil
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		msg.Event,  // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// PublishSettlements sends one event per row and logs failures instead of
// returning them; the rows are already committed.
func (p *EventPublisher) PublishSettlements(ctx context.Context, event string, rows []models.Settlement) {
	if p == nil {
		return
	}
	for _, row := range rows {
		if err := p.Publish(ctx, NewSettlementMessage(event, row)); err != nil {
			log.Printf("❌ Failed to publish %s for settlement %s: %v", event, row.ID, err)
		}
	}
}

func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
