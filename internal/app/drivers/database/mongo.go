package database

import (
	"context"
	"fmt"
	"log"
	"telemed-service/internal/app/config"
	"telemed-service/internal/pkg/constvars"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func NewMongoDB(driverConfig *config.DriverConfig) *mongo.Database {
	connectionString := fmt.Sprintf(
		"mongodb://%s:%s@%s:%s",
		driverConfig.MongoDB.Username,
		driverConfig.MongoDB.Password,
		driverConfig.MongoDB.Host,
		driverConfig.MongoDB.Port,
	)
	if driverConfig.MongoDB.Username == "" {
		connectionString = fmt.Sprintf("mongodb://%s:%s", driverConfig.MongoDB.Host, driverConfig.MongoDB.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbOptions := options.Client().ApplyURI(connectionString)
	client, err := mongo.Connect(ctx, dbOptions)
	if err != nil {
		log.Fatalf("Failed to connect to mongo database: %s", err.Error())
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to ping or test the connection to mongo database: %s", err.Error())
	}
	log.Println("Successfully connected to mongo database")

	db := client.Database(driverConfig.MongoDB.DbName)
	err = ensureIndexes(ctx, db)
	if err != nil {
		log.Fatalf("Failed to create mongo indexes: %s", err.Error())
	}
	return db
}

// ensureIndexes creates the natural key indexes the repositories rely on for idempotency.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		constvars.MongoCollectionSubscribers: {
			{Keys: bson.D{{Key: "nationalId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "identityUserId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		constvars.MongoCollectionSubscriptions: {
			{Keys: bson.D{{Key: "nationalId", Value: 1}, {Key: "planId", Value: 1}}},
			{Keys: bson.D{{Key: "nationalId", Value: 1}, {Key: "status", Value: 1}}},
		},
		constvars.MongoCollectionOnboardingSagas: {
			{Keys: bson.D{{Key: "nationalId", Value: 1}, {Key: "planId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "state", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "billingSubscriptionId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		constvars.MongoCollectionImmediateRequests: {
			{Keys: bson.D{{Key: "nationalId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("%s: %w", collection, err)
		}
	}
	return nil
}
