package missionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the mission indexes and the unique slot ledger index.
func (repo *MongoMissionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	missionIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}
	if _, err := repo.missionColl.Indexes().CreateMany(ctx, missionIdx); err != nil {
		return fmt.Errorf("failed to create mission indexes: %w", err)
	}

	slotIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_provider_date_time"),
		},
		{Keys: bson.D{{Key: "missionId", Value: 1}}},
	}
	if _, err := repo.slotColl.Indexes().CreateMany(ctx, slotIdx); err != nil {
		return fmt.Errorf("failed to create slot ledger indexes: %w", err)
	}
	return nil
}
