package plans

import (
	"context"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PlanMongoRepository struct {
	Collection *mongo.Collection
}

func NewPlanMongoRepository(db *mongo.Database) contracts.PlanRepository {
	return &PlanMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionPlans),
	}
}

func (r *PlanMongoRepository) FindByID(ctx context.Context, planID string) (*models.Plan, error) {
	var plan models.Plan
	err := r.Collection.FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &plan, nil
}

func (r *PlanMongoRepository) Create(ctx context.Context, plan *models.Plan) error {
	_, err := r.Collection.InsertOne(ctx, plan)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}
