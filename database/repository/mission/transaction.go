package missionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// withTransaction runs fn inside a session transaction. The driver retries
// fn while the error carries TransientTransactionError, so a write conflict
// with a concurrent claim is re-run and then meets the unique index.
func (repo *MongoMissionRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.missionColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// classifyTxnError maps transaction failures onto repository sentinels.
// Contention that outlasted the driver's retries is reported as contended,
// the sentinel the caller would have hit had the other writer committed first.
func classifyTxnError(err, contended error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStatusChanged), errors.Is(err, ErrSlotTaken):
		return err
	case mongo.IsDuplicateKeyError(err):
		return ErrSlotTaken
	}
	var labeled mongo.LabeledError
	if errors.As(err, &labeled) && labeled.HasErrorLabel(driverTransientLabel) {
		return contended
	}
	return err
}

const driverTransientLabel = "TransientTransactionError"

// claimSlots inserts one ledger row per time label. The unique index turns a
// concurrent claim of the same slot into a duplicate key error.
func (repo *MongoMissionRepo) claimSlots(sc mongo.SessionContext, m *models.Mission) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(m.Times))
	for _, t := range m.Times {
		docs = append(docs, models.BookedSlot{
			ProviderID: m.ProviderID,
			Date:       m.Date,
			Time:       t,
			MissionID:  m.ID,
			CreatedAt:  now,
		})
	}
	if _, err := repo.slotColl.InsertMany(sc, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("claim slots failed: %w", err)
	}
	return nil
}

func (repo *MongoMissionRepo) releaseSlots(sc mongo.SessionContext, missionID string) error {
	if _, err := repo.slotColl.DeleteMany(sc, bson.M{"missionId": missionID}); err != nil {
		return fmt.Errorf("release slots failed: %w", err)
	}
	return nil
}

// Create inserts the mission and its slot claims in one transaction.
func (repo *MongoMissionRepo) Create(ctx context.Context, m *models.Mission) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if m.Status.HoldsSlot() {
			if err := repo.claimSlots(sc, m); err != nil {
				return err
			}
		}
		if _, err := repo.missionColl.InsertOne(sc, m); err != nil {
			return fmt.Errorf("insert mission failed: %w", err)
		}
		return nil
	})
	if err = classifyTxnError(err, ErrSlotTaken); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("mission transaction failed: %w", err)
	}
	return nil
}

// UpdateStatus performs a compare-and-set on status and keeps the slot
// ledger in step with it.
func (repo *MongoMissionRepo) UpdateStatus(
	ctx context.Context,
	id string,
	expect models.MissionStatus,
	mutate func(*models.Mission),
) (*models.Mission, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var updated *models.Mission
	err := repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		raw, err := repo.missionColl.FindOne(sc, bson.M{"id": id}).Raw()
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("load mission failed: %w", err)
		}
		current, err := decodeMission(raw)
		if err != nil {
			return err
		}
		if current.Status != expect {
			return ErrStatusChanged
		}

		next := cloneMission(current)
		mutate(next)
		next.UpdatedAt = time.Now()

		switch {
		case current.Status.HoldsSlot() && !next.Status.HoldsSlot():
			if err := repo.releaseSlots(sc, id); err != nil {
				return err
			}
		case !current.Status.HoldsSlot() && next.Status.HoldsSlot():
			if err := repo.claimSlots(sc, next); err != nil {
				return err
			}
		}

		// Match the stored value, which may be a legacy spelling of expect.
		res, err := repo.missionColl.ReplaceOne(sc, casFilter(id, raw), next)
		if err != nil {
			return fmt.Errorf("update mission failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStatusChanged
		}
		updated = next
		return nil
	})
	if err = classifyTxnError(err, ErrStatusChanged); err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrStatusChanged), errors.Is(err, ErrSlotTaken):
			return nil, err
		}
		repo.logger.Error("mission status transaction failed", zap.String("missionID", id), zap.Error(err))
		return nil, fmt.Errorf("mission transaction failed: %w", err)
	}
	return updated, nil
}
