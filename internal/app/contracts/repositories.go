package contracts

import (
	"context"
	"telemed-service/internal/app/models"
	"time"
)

type SubscriberRepository interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Subscriber, error)
	FindByIdentityUserID(ctx context.Context, identityUserID string) (*models.Subscriber, error)
	Upsert(ctx context.Context, subscriber *models.Subscriber) error
	UpdateStatus(ctx context.Context, nationalID, status string) error
}

type SubscriptionRepository interface {
	FindByID(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	FindByNationalIDAndPlan(ctx context.Context, nationalID, planID string) (*models.Subscription, error)
	FindOpenByNationalID(ctx context.Context, nationalID string) (*models.Subscription, error)
	Upsert(ctx context.Context, subscription *models.Subscription) error
	UpdateStatus(ctx context.Context, subscriptionID, status string) error
}

type PlanRepository interface {
	FindByID(ctx context.Context, planID string) (*models.Plan, error)
	Create(ctx context.Context, plan *models.Plan) error
}

type OnboardingSagaRepository interface {
	FindByID(ctx context.Context, sagaID string) (*models.OnboardingSaga, error)
	FindByNationalIDAndPlan(ctx context.Context, nationalID, planID string) (*models.OnboardingSaga, error)
	FindLatestByNationalID(ctx context.Context, nationalID string) (*models.OnboardingSaga, error)
	FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*models.OnboardingSaga, error)
	// ListByState pages through sagas in state ordered by id, starting after afterID.
	ListByState(ctx context.Context, state, afterID string, limit int64) ([]models.OnboardingSaga, error)
	Save(ctx context.Context, saga *models.OnboardingSaga) error
	// MarkPaid records the payment once; it reports false when the saga was already paid.
	MarkPaid(ctx context.Context, sagaID string, paidAt time.Time) (bool, error)
}

type ImmediateRequestRepository interface {
	Create(ctx context.Context, request *models.ImmediateRequest) error
	FindByID(ctx context.Context, requestID string) (*models.ImmediateRequest, error)
	Update(ctx context.Context, request *models.ImmediateRequest) error
}
