package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/venue-price-board/internal/queue"
)

// EventPublisher delivers board change events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BoardChangedEvent) error
}

// NopPublisher drops every event. It is used when AMQP is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.BoardChangedEvent) error { return nil }

// AMQPPublisher publishes each event to the durable board.changed queue.
// A connection is dialled per event; admin writes are rare enough that
// holding a channel open is not worth the reconnect handling.
type AMQPPublisher struct {
	URL string
	Log *logrus.Logger
}

// Publish sends ev as a persistent JSON message. Errors are logged and
// returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.BoardChangedEvent) error {
	log := p.Log.WithField("queue", queue.BoardChangedQueue)
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.BoardChangedQueue, // name
		true,                    // durable
		false,                   // autoDelete
		false,                   // exclusive
		false,                   // noWait
		nil,                     // args
	); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BoardChangedQueue, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
