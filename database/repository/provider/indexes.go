package providerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the id indexes the engine looks profiles up by.
func (r *MongoProviderRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	idIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, idIdx); err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}
	if _, err := r.userColl.Indexes().CreateOne(ctx, idIdx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}
