package paymentqueue

import (
	"context"
	"fmt"
	"sync"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// channel is the subset of *amqp.Channel used by the queue service.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
	Ack(tag uint64, multiple bool) error
}

type paymentQueueService struct {
	ch       channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

// NewPaymentQueueService declares the payment event queue and its dead-letter queue on a
// dedicated channel with publisher confirms enabled.
func NewPaymentQueueService(conn *amqp.Connection, log *zap.Logger, prefetch int) (contracts.PaymentQueueService, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, queue := range []string{constvars.PaymentEventQueueName, constvars.PaymentEventDeadLetterQueueName} {
		_, err = ch.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &paymentQueueService{
		ch:       ch,
		log:      log,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *paymentQueueService) Enqueue(ctx context.Context, event models.PaymentEvent) error {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("paymentQueueService.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentEventKey, event.Event),
		zap.String(constvars.LoggingMessageIDKey, event.ID),
	)
	return s.publishEvent(ctx, constvars.PaymentEventQueueName, event)
}

// Reenqueue puts the event back at the tail of the standard queue, normally with a bumped failed count.
func (s *paymentQueueService) Reenqueue(ctx context.Context, event models.PaymentEvent) error {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("paymentQueueService.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, event.ID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
	)
	return s.publishEvent(ctx, constvars.PaymentEventQueueName, event)
}

func (s *paymentQueueService) EnqueueToDeadQueue(ctx context.Context, event models.PaymentEvent) error {
	requestID := utils.GetRequestID(ctx)
	s.log.Warn("paymentQueueService.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, event.ID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
	)
	return s.publishEvent(ctx, constvars.PaymentEventDeadLetterQueueName, event)
}

// FetchN pulls up to max deliveries without auto-ack. Undecodable bodies are moved to the DLQ.
func (s *paymentQueueService) FetchN(ctx context.Context, max int) ([]contracts.QueuedPaymentEvent, error) {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("paymentQueueService.FetchN called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if max <= 0 {
		max = 1
	}
	items := make([]contracts.QueuedPaymentEvent, 0, max)

	for i := 0; i < max; i++ {
		d, ok, err := s.ch.Get(constvars.PaymentEventQueueName, false)
		if err != nil {
			return nil, exceptions.ErrRabbitMQConsumeMessage(err, constvars.PaymentEventQueueName)
		}
		if !ok {
			break
		}

		var event models.PaymentEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			s.log.Error("paymentQueueService.FetchN poison message moved to dead letter queue",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			_ = s.ch.Ack(d.DeliveryTag, false)
			_ = s.publish(ctx, constvars.PaymentEventDeadLetterQueueName, d.Body)
			continue
		}
		items = append(items, contracts.QueuedPaymentEvent{DeliveryTag: d.DeliveryTag, Event: event})
	}

	s.log.Info("paymentQueueService.FetchN succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingMessageCountKey, len(items)),
	)
	return items, nil
}

func (s *paymentQueueService) AckMessage(ctx context.Context, deliveryTag uint64) error {
	if err := s.ch.Ack(deliveryTag, false); err != nil {
		return exceptions.ErrRabbitMQConsumeMessage(err, constvars.PaymentEventQueueName)
	}
	return nil
}

func (s *paymentQueueService) publishEvent(ctx context.Context, queue string, event models.PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publish(ctx, queue, body)
}

// publish sends a persistent message and waits for the broker confirm.
func (s *paymentQueueService) publish(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
