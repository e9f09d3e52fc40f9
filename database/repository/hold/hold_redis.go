package holdRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"carebook/models"

	"github.com/go-redis/redis/v8"
)

// RedisHoldRepo keeps each hold under hold:<id> with a TTL and indexes it in
// a sorted set holds:<provider>:<date> scored by expiry in unix milliseconds.
type RedisHoldRepo struct {
	client *redis.Client
}

func NewRedisHoldRepo(client *redis.Client) *RedisHoldRepo {
	return &RedisHoldRepo{client: client}
}

func holdKey(id string) string {
	return "hold:" + id
}

func indexKey(providerID, date string) string {
	return fmt.Sprintf("holds:%s:%s", providerID, date)
}

func (r *RedisHoldRepo) Save(ctx context.Context, hold *models.Hold) error {
	data, err := json.Marshal(hold)
	if err != nil {
		return fmt.Errorf("failed to marshal hold: %w", err)
	}
	ttl := time.Until(hold.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("hold %s already expired", hold.ID)
	}

	idx := indexKey(hold.ProviderID, hold.Date)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, holdKey(hold.ID), data, ttl)
		pipe.ZAdd(ctx, idx, &redis.Z{Score: float64(hold.ExpiresAt.UnixMilli()), Member: hold.ID})
		// The index outlives its newest member by a little so readers can prune it.
		pipe.Expire(ctx, idx, ttl+time.Minute)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store hold %s: %w", hold.ID, err)
	}
	return nil
}

func (r *RedisHoldRepo) Get(ctx context.Context, id string) (*models.Hold, error) {
	data, err := r.client.Get(ctx, holdKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load hold %s: %w", id, err)
	}
	var hold models.Hold
	if err := json.Unmarshal(data, &hold); err != nil {
		return nil, fmt.Errorf("failed to parse hold %s: %w", id, err)
	}
	return &hold, nil
}

func (r *RedisHoldRepo) Delete(ctx context.Context, hold *models.Hold) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, holdKey(hold.ID))
		pipe.ZRem(ctx, indexKey(hold.ProviderID, hold.Date), hold.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete hold %s: %w", hold.ID, err)
	}
	return nil
}

func (r *RedisHoldRepo) ListActive(ctx context.Context, providerID, date string, now time.Time) ([]models.Hold, error) {
	idx := indexKey(providerID, date)
	// Exclusive bound: a member scored in now's millisecond may still be live.
	cutoff := "(" + strconv.FormatInt(now.UnixMilli(), 10)
	if err := r.client.ZRemRangeByScore(ctx, idx, "-inf", cutoff).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune hold index: %w", err)
	}

	ids, err := r.client.ZRange(ctx, idx, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hold index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = holdKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load holds: %w", err)
	}

	holds := make([]models.Hold, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// key expired before the index was pruned
			continue
		}
		var hold models.Hold
		if err := json.Unmarshal([]byte(s), &hold); err != nil {
			continue
		}
		if hold.Expired(now) {
			continue
		}
		holds = append(holds, hold)
	}
	return holds, nil
}
