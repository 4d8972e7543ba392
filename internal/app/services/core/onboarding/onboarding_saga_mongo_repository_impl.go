package onboarding

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

type OnboardingSagaMongoRepository struct {
	Collection *mongo.Collection
}

func NewOnboardingSagaMongoRepository(db *mongo.Database) contracts.OnboardingSagaRepository {
	return &OnboardingSagaMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionOnboardingSagas),
	}
}

func (r *OnboardingSagaMongoRepository) FindByID(ctx context.Context, sagaID string) (*models.OnboardingSaga, error) {
	return r.findOne(ctx, bson.M{"_id": sagaID}, nil)
}

func (r *OnboardingSagaMongoRepository) FindByNationalIDAndPlan(ctx context.Context, nationalID, planID string) (*models.OnboardingSaga, error) {
	return r.findOne(ctx, bson.M{"nationalId": nationalID, "planId": planID}, nil)
}

func (r *OnboardingSagaMongoRepository) FindLatestByNationalID(ctx context.Context, nationalID string) (*models.OnboardingSaga, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.findOne(ctx, bson.M{"nationalId": nationalID}, opts)
}

func (r *OnboardingSagaMongoRepository) FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*models.OnboardingSaga, error) {
	return r.findOne(ctx, bson.M{"billingSubscriptionId": subscriptionID}, nil)
}

func (r *OnboardingSagaMongoRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.OnboardingSaga, error) {
	findOpts := []*options.FindOneOptions{}
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	var saga models.OnboardingSaga
	err := r.Collection.FindOne(ctx, filter, findOpts...).Decode(&saga)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &saga, nil
}

// ListByState returns one page of sagas in state, keyed on _id so sagas leaving
// the state between pages do not shift the next one.
func (r *OnboardingSagaMongoRepository) ListByState(ctx context.Context, state, afterID string, limit int64) ([]models.OnboardingSaga, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	filter := bson.M{"state": state}
	if afterID != "" {
		filter["_id"] = bson.M{"$gt": afterID}
	}

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var sagas []models.OnboardingSaga
	if err := cursor.All(ctx, &sagas); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return sagas, nil
}

func (r *OnboardingSagaMongoRepository) Save(ctx context.Context, saga *models.OnboardingSaga) error {
	saga.SetUpdatedAt()
	if saga.CreatedAt.IsZero() {
		saga.CreatedAt = saga.UpdatedAt
	}

	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": saga.ID}, saga, options.Replace().SetUpsert(true))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// MarkPaid sets paidAt only when it is still unset, so concurrent webhook and poll
// observations hand off to provisioning once.
func (r *OnboardingSagaMongoRepository) MarkPaid(ctx context.Context, sagaID string, paidAt time.Time) (bool, error) {
	filter := bson.M{
		"_id":    sagaID,
		"paidAt": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"paidAt": paidAt, "updatedAt": time.Now()}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}
