package missionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoMissionRepo implements MissionRepository using MongoDB. Slot claims
// live in their own collection with a unique (providerId, date, time) index,
// which is what makes double booking impossible at the store level.
type MongoMissionRepo struct {
	missionColl *mongo.Collection
	slotColl    *mongo.Collection
	logger      *zap.Logger
}

// NewMongoMissionRepo constructs a new instance of MongoMissionRepo and
// ensures its indexes exist.
func NewMongoMissionRepo(db *mongo.Database, logger *zap.Logger) (*MongoMissionRepo, error) {
	repo := &MongoMissionRepo{
		missionColl: db.Collection("missions"),
		slotColl:    db.Collection("booked_slots"),
		logger:      logger,
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// GetByID retrieves a mission document by ID.
func (repo *MongoMissionRepo) GetByID(ctx context.Context, id string) (*models.Mission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	raw, err := repo.missionColl.FindOne(ctx, bson.M{"id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching mission %s: %w", id, err)
	}
	return decodeMission(raw)
}

// BookedTimes reads the slot ledger for a provider and date.
func (repo *MongoMissionRepo) BookedTimes(ctx context.Context, providerID, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "date": date}
	opts := options.Find().SetProjection(bson.M{"time": 1}).SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := repo.slotColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	var times []string
	for cursor.Next(ctx) {
		var s models.BookedSlot
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("error decoding booked slot: %w", err)
		}
		times = append(times, s.Time)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return times, nil
}

// ListActive returns the non-cancelled missions of a provider on a date.
func (repo *MongoMissionRepo) ListActive(ctx context.Context, providerID, date string) ([]models.Mission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"status":     bson.M{"$ne": models.StatusCancelled},
	}
	cursor, err := repo.missionColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing missions: %w", err)
	}
	defer cursor.Close(ctx)

	var missions []models.Mission
	for cursor.Next(ctx) {
		m, err := decodeMission(cursor.Current)
		if err != nil {
			repo.logger.Warn("skipping undecodable mission", zap.Error(err))
			continue
		}
		missions = append(missions, *m)
	}
	return missions, cursor.Err()
}

// ScanActive streams every non-cancelled mission, oldest date first.
func (repo *MongoMissionRepo) ScanActive(ctx context.Context, fn func(models.Mission) error) error {
	filter := bson.M{"status": bson.M{"$ne": models.StatusCancelled}}
	opts := options.Find().SetSort(bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}})
	cursor, err := repo.missionColl.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("error scanning missions: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		m, err := decodeMission(cursor.Current)
		if err != nil {
			repo.logger.Warn("skipping undecodable mission", zap.Error(err))
			continue
		}
		if err := fn(*m); err != nil {
			return err
		}
	}
	return cursor.Err()
}
