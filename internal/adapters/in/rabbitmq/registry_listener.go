package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/in"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

// RegistryListener слушает события изменения реестра из админки
// и инвалидирует соответствующие записи кэша
type RegistryListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.RegistryRefreshUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type (
	RegistryAction       string
	RegistryResourceType string
)

type RegistryMessageRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType RegistryResourceType
	ResourceID   string
	Action       RegistryAction
}

const (
	RegistryResourceTypeAll         RegistryResourceType = "_all_"
	RegistryResourceTypeConsultorio RegistryResourceType = "consultorio"
	RegistryResourceTypeHoliday     RegistryResourceType = "holiday"
)

const (
	RegistryActionStore      RegistryAction = "store"
	RegistryActionInvalidate RegistryAction = "invalidate"
)

func NewRegistryListener(useCase in.RegistryRefreshUseCase, cfg *config.Config, logger out.LoggerPort) (*RegistryListener, error) {
	if !cfg.RabbitMq.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMq.AmqpUri)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMq.AmqpUri,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &RegistryListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *RegistryListener) Start(ctx context.Context) error {
	if l == nil {
		return nil
	}

	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.Queue,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go l.consume(ctx, msgs)

	l.logger.Info("registry.queue.started", out.LogFields{
		"queue": queue.Name,
	})

	return nil
}

func (l *RegistryListener) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			// Канал закрывается при потере соединения, выходим
			if !ok {
				l.logger.Warn("registry.queue.closed", nil)
				return
			}
			if err := l.processMessage(ctx, msg); err != nil {
				l.logger.Warn("registry.message.failed", out.LogFields{
					"routing_key": msg.RoutingKey,
					"error":       err.Error(),
				})
				msg.Nack(false, true) // requeue message
				continue
			}
			msg.Ack(false)
		}
	}
}

func (l *RegistryListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

func (l *RegistryListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := l.parseRegistryMessageRoutingKey(msg)
	if err != nil {
		return err
	}

	// Store и invalidate для движка равнозначны: конфигурация поменялась,
	// кэшированную копию нужно выбросить
	switch routingKey.ResourceType {
	case RegistryResourceTypeAll:
		l.useCase.InvalidateAllConsultorios(ctx)
		l.useCase.InvalidateHolidayCalendar(ctx)
		l.logger.Info("registry.message.invalidated_all", out.LogFields{
			"routing_key": msg.RoutingKey,
		})
	case RegistryResourceTypeConsultorio:
		if routingKey.ResourceID == "_all_" {
			l.useCase.InvalidateAllConsultorios(ctx)
			l.logger.Info("registry.message.invalidated_consultorios", out.LogFields{
				"routing_key": msg.RoutingKey,
			})
			return nil
		}
		consultorioID, err := uuid.Parse(routingKey.ResourceID)
		if err != nil {
			return fmt.Errorf("invalid consultorio id in routing key %s: %w", msg.RoutingKey, err)
		}
		l.useCase.InvalidateConsultorio(ctx, consultorioID)
		l.logger.Info("registry.message.invalidated_consultorio", out.LogFields{
			"consultorio_id": consultorioID.String(),
		})
	case RegistryResourceTypeHoliday:
		l.useCase.InvalidateHolidayCalendar(ctx)
		l.logger.Info("registry.message.invalidated_holidays", out.LogFields{
			"routing_key": msg.RoutingKey,
		})
	}

	return nil
}

// Пример routingKey:
// registry.slot-engine-svc.consultorio.<uuid>.store
// registry.slot-engine-svc.consultorio._all_.invalidate
// registry.slot-engine-svc.holiday.2026.store
// registry.slot-engine-svc._all_._all_.invalidate
func (l *RegistryListener) parseRegistryMessageRoutingKey(msg amqp.Delivery) (RegistryMessageRoutingKey, error) {
	parts := strings.Split(msg.RoutingKey, ".")

	if len(parts) < 5 {
		return RegistryMessageRoutingKey{}, fmt.Errorf("invalid routing key: %s", msg.RoutingKey)
	}

	return RegistryMessageRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: RegistryResourceType(parts[2]),
		ResourceID:   parts[3],
		Action:       RegistryAction(parts[4]),
	}, nil
}
