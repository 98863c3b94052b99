package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
)

const auditQueueName = "invoice.audit"

// AuditPublisher ships audit events to a durable RabbitMQ queue for
// downstream compliance consumers. Each publish dials its own connection:
// takeovers are rare and a persistent connection would spend most of its life
// idle or broken.
type AuditPublisher struct {
	url    string
	logger coreport.Logger
}

// NewAuditPublisher creates a publisher for the given broker URL
func NewAuditPublisher(url string, logger coreport.Logger) *AuditPublisher {
	return &AuditPublisher{
		url:    url,
		logger: logger,
	}
}

// Record publishes the event as a persistent JSON message. Errors are
// returned so the fanout sink can log them; they never fail the takeover.
func (p *AuditPublisher) Record(ctx context.Context, event *entity.AuditEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts
	if _, err := ch.QueueDeclare(auditQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",             // default exchange
		auditQueueName, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	p.logger.Debug("Audit event published", map[string]any{
		"event_id":   event.ID,
		"event_type": event.EventType,
		"queue":      auditQueueName,
	})
	return nil
}
