package appointments

import (
	"context"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ImmediateRequestMongoRepository struct {
	Collection *mongo.Collection
}

func NewImmediateRequestMongoRepository(db *mongo.Database) contracts.ImmediateRequestRepository {
	return &ImmediateRequestMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionImmediateRequests),
	}
}

func (r *ImmediateRequestMongoRepository) Create(ctx context.Context, request *models.ImmediateRequest) error {
	_, err := r.Collection.InsertOne(ctx, request)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *ImmediateRequestMongoRepository) FindByID(ctx context.Context, requestID string) (*models.ImmediateRequest, error) {
	var request models.ImmediateRequest
	err := r.Collection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &request, nil
}

func (r *ImmediateRequestMongoRepository) Update(ctx context.Context, request *models.ImmediateRequest) error {
	request.SetUpdatedAt()
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
