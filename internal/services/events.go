package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
)

const DefaultEventsExchange = "document_events"

const (
	EventProcessed = "processed"
	EventFailed    = "failed"
	EventDeleted   = "deleted"
)

// DocumentEvent is published after each upload outcome and each deletion.
type DocumentEvent struct {
	Status       string    `json:"status"`
	DocumentID   string    `json:"document_id,omitempty"`
	Username     string    `json:"username"`
	Filename     string    `json:"filename,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoutingKey is document.<status>.
func (e DocumentEvent) RoutingKey() string {
	return "document." + e.Status
}

// OutcomeEvent describes one pipeline outcome for a given upload.
func OutcomeEvent(username, filename, documentID string, outcome models.AnalysisOutcome) DocumentEvent {
	event := DocumentEvent{
		Username:   username,
		Filename:   filename,
		DocumentID: documentID,
		Timestamp:  time.Now().UTC(),
	}
	if outcome.Succeeded() && outcome.Data != nil {
		event.Status = EventProcessed
		event.DocumentType = outcome.Data.DocumentType
		event.Skills = outcome.Data.Skills
		return event
	}
	event.Status = EventFailed
	event.Error = outcome.Error
	return event
}

type EventPublisher interface {
	Publish(ctx context.Context, event DocumentEvent) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel

	logger *zap.Logger
}

// NewAMQPPublisher dials url and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string, log *zap.Logger) (EventPublisher, error) {
	if exchange == "" {
		exchange = DefaultEventsExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("error declaring exchange %s: %w", exchange, err)
	}

	return &amqpPublisher{
		conn:     conn,
		exchange: exchange,
		ch:       ch,
		logger:   logger.OrNop(log).With(zap.String("exchange", exchange)),
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event DocumentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	// amqp.Channel is not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(
		p.exchange,
		event.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.RoutingKey(), err)
	}

	p.logger.Debug("event published", zap.String("routing_key", event.RoutingKey()))
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		p.logger.Warn("failed to close rabbitmq channel", zap.Error(err))
	}
	return p.conn.Close()
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. It is used when no broker is configured.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, DocumentEvent) error { return nil }

func (noopPublisher) Close() error { return nil }
