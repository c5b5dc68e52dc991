// Package publisher emits form lifecycle events to RabbitMQ. Events
// are wrapped in an entity.Event envelope and routed by their type on
// a durable direct exchange.
package publisher

import (
	"encoding/json"
	"time"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const exchangeType = "direct"

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	logger   *logger.Logger
	exchange string
}

func Init(conn *amqp.Connection, logger *logger.Logger, exchange string) (*Publisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		logger.Error("error opening channel", zap.Error(err))
		return nil, err
	}

	if err = channel.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		logger.Error("error declaring exchange",
			zap.String("exchange", exchange),
			zap.Error(err))
		return nil, err
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		logger:   logger,
		exchange: exchange,
	}, nil
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.logger.Error("error closing channel", zap.Error(err))
	}
	return p.conn.Close()
}

func (p *Publisher) IsHealthy() bool {
	return !p.conn.IsClosed()
}

// Publish wraps payload in an Event envelope and emits it with
// routingKey (one of the entity.EventForm* types).
func (p *Publisher) Publish(payload any, routingKey string) error {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("error encode payload for publish", zap.Error(err))
		return err
	}

	event := entity.NewEvent(routingKey, payloadJson)

	eventJson, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("error encode event for publish",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return err
	}

	err = p.channel.Publish(
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        eventJson,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		p.logger.Error("error publishing event",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return err
	}

	p.logger.Debug("published event",
		zap.String("event_id", event.ID),
		zap.String("routing_key", routingKey),
	)

	return nil
}
