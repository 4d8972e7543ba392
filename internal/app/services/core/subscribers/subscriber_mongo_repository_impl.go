package subscribers

import (
	"context"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriberMongoRepository struct {
	Collection *mongo.Collection
}

func NewSubscriberMongoRepository(db *mongo.Database) contracts.SubscriberRepository {
	return &SubscriberMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionSubscribers),
	}
}

func (r *SubscriberMongoRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Subscriber, error) {
	return r.findOne(ctx, bson.M{"nationalId": nationalID})
}

func (r *SubscriberMongoRepository) FindByIdentityUserID(ctx context.Context, identityUserID string) (*models.Subscriber, error) {
	return r.findOne(ctx, bson.M{"identityUserId": identityUserID})
}

func (r *SubscriberMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.Collection.FindOne(ctx, filter).Decode(&subscriber)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &subscriber, nil
}

// Upsert writes the subscriber keyed by national id. The document id and creation
// time are only set on insert.
func (r *SubscriberMongoRepository) Upsert(ctx context.Context, subscriber *models.Subscriber) error {
	now := time.Now()
	if subscriber.ID == "" {
		subscriber.ID = utils.GenerateID()
	}
	if subscriber.CreatedAt.IsZero() {
		subscriber.CreatedAt = now
	}
	subscriber.UpdatedAt = now

	set := bson.M{
		"name":      subscriber.Name,
		"email":     subscriber.Email,
		"phone":     subscriber.Phone,
		"birthDate": subscriber.BirthDate,
		"address":   subscriber.Address,
		"status":    subscriber.Status,
		"updatedAt": subscriber.UpdatedAt,
	}
	if subscriber.BillingCustomerID != "" {
		set["billingCustomerId"] = subscriber.BillingCustomerID
	}
	if subscriber.IdentityUserID != "" {
		set["identityUserId"] = subscriber.IdentityUserID
	}
	if subscriber.BeneficiaryUUID != "" {
		set["beneficiaryUuid"] = subscriber.BeneficiaryUUID
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       subscriber.ID,
			"createdAt": subscriber.CreatedAt,
		},
	}

	_, err := r.Collection.UpdateOne(ctx, bson.M{"nationalId": subscriber.NationalID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SubscriberMongoRepository) UpdateStatus(ctx context.Context, nationalID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"nationalId": nationalID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
