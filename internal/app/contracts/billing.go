package contracts

import (
	"context"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/dto/requests"
)

type BillingGateway interface {
	// FindCustomerByNationalID returns nil when no customer holds the document.
	FindCustomerByNationalID(ctx context.Context, nationalID string) (*models.BillingCustomer, error)
	CreateCustomer(ctx context.Context, request *requests.BillingCustomer) (*models.BillingCustomer, error)
	CreateSubscription(ctx context.Context, request *requests.BillingSubscription) (*models.BillingSubscription, error)
	ListSubscriptionPayments(ctx context.Context, subscriptionID string) ([]models.BillingPayment, error)
}
