package contracts

import (
	"context"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/dto/requests"
)

// QueuedPaymentEvent is a fetched delivery and its decoded payload.
type QueuedPaymentEvent struct {
	DeliveryTag uint64
	Event       models.PaymentEvent
}

type PaymentQueueService interface {
	Enqueue(ctx context.Context, event models.PaymentEvent) error
	Reenqueue(ctx context.Context, event models.PaymentEvent) error
	EnqueueToDeadQueue(ctx context.Context, event models.PaymentEvent) error
	FetchN(ctx context.Context, max int) ([]QueuedPaymentEvent, error)
	AckMessage(ctx context.Context, deliveryTag uint64) error
}

type MailerService interface {
	SendEmail(ctx context.Context, request *requests.EmailPayload) error
}

type StorageService interface {
	// PutJSON serializes payload and stores it under objectName in the configured bucket.
	PutJSON(ctx context.Context, objectName string, payload interface{}) error
}

type StatusTokenManager interface {
	CreateStatusToken(sagaID string) (string, error)
	ParseStatusToken(token string) (string, error)
}
