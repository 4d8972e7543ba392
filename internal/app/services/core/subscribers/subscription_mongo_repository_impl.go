package subscribers

import (
	"context"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriptionMongoRepository struct {
	Collection *mongo.Collection
}

func NewSubscriptionMongoRepository(db *mongo.Database) contracts.SubscriptionRepository {
	return &SubscriptionMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionSubscriptions),
	}
}

func (r *SubscriptionMongoRepository) FindByID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return r.findOne(ctx, bson.M{"_id": subscriptionID}, nil)
}

func (r *SubscriptionMongoRepository) FindByNationalIDAndPlan(ctx context.Context, nationalID, planID string) (*models.Subscription, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, bson.M{"nationalId": nationalID, "planId": planID}, opts)
}

// FindOpenByNationalID returns the subscriber's ATIVA or PENDENTE subscription, if any.
func (r *SubscriptionMongoRepository) FindOpenByNationalID(ctx context.Context, nationalID string) (*models.Subscription, error) {
	filter := bson.M{
		"nationalId": nationalID,
		"status": bson.M{"$in": []string{
			models.SubscriptionStatusActive,
			models.SubscriptionStatusPending,
		}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, filter, opts)
}

func (r *SubscriptionMongoRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Subscription, error) {
	var subscription models.Subscription
	findOpts := []*options.FindOneOptions{}
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	err := r.Collection.FindOne(ctx, filter, findOpts...).Decode(&subscription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &subscription, nil
}

// Upsert stores the subscription under its billing provider id.
func (r *SubscriptionMongoRepository) Upsert(ctx context.Context, subscription *models.Subscription) error {
	now := time.Now()
	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = now
	}
	subscription.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"nationalId":    subscription.NationalID,
			"planId":        subscription.PlanID,
			"cycle":         subscription.Cycle,
			"billingMethod": subscription.BillingMethod,
			"value":         subscription.Value,
			"status":        subscription.Status,
			"updatedAt":     subscription.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": subscription.CreatedAt},
	}

	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": subscription.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SubscriptionMongoRepository) UpdateStatus(ctx context.Context, subscriptionID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": subscriptionID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
