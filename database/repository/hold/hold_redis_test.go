package holdRepo

import (
	"context"
	"testing"
	"time"

	"carebook/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func newHold(id, customer string, expires time.Time, times ...string) *models.Hold {
	return &models.Hold{
		ID:         id,
		CustomerID: customer,
		ProviderID: "prov-1",
		Date:       "2026-11-02",
		Times:      times,
		CreatedAt:  time.Now(),
		ExpiresAt:  expires,
	}
}

func TestRedisHoldRepoSaveGetDelete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewRedisHoldRepo(client)
	ctx := context.Background()

	h := newHold("h1", "cust-1", time.Now().Add(10*time.Minute), "09:00", "09:30")
	require.NoError(t, repo.Save(ctx, h))

	got, err := repo.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, got.Times)

	require.NoError(t, repo.Delete(ctx, got))
	_, err = repo.Get(ctx, "h1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisHoldRepoListActiveSkipsExpired(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewRedisHoldRepo(client)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, newHold("h1", "cust-1", now.Add(5*time.Minute), "09:00")))
	require.NoError(t, repo.Save(ctx, newHold("h2", "cust-2", now.Add(20*time.Minute), "10:00")))

	holds, err := repo.ListActive(ctx, "prov-1", "2026-11-02", now)
	require.NoError(t, err)
	assert.Len(t, holds, 2)

	holds, err = repo.ListActive(ctx, "prov-1", "2026-11-02", now.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "h2", holds[0].ID)
}

func TestRedisHoldRepoListActiveAfterKeyTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewRedisHoldRepo(client)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, newHold("h1", "cust-1", now.Add(2*time.Minute), "09:00")))
	mr.FastForward(3 * time.Minute)

	holds, err := repo.ListActive(ctx, "prov-1", "2026-11-02", now)
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestRedisHoldRepoSaveRejectsExpired(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewRedisHoldRepo(client)

	err := repo.Save(context.Background(), newHold("h1", "cust-1", time.Now().Add(-time.Second), "09:00"))
	assert.Error(t, err)
}

func TestRedisHoldRepoKeepsHoldsInTheirLastSecond(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewRedisHoldRepo(client)
	ctx := context.Background()

	expires := time.Now().Add(10 * time.Minute).Truncate(time.Millisecond).Add(600 * time.Microsecond)
	require.NoError(t, repo.Save(ctx, newHold("h1", "cust-1", expires, "09:00")))

	score, err := client.ZScore(ctx, indexKey("prov-1", "2026-11-02"), "h1").Result()
	require.NoError(t, err)
	assert.Equal(t, float64(expires.UnixMilli()), score)

	for _, before := range []time.Duration{400 * time.Millisecond, 400 * time.Microsecond} {
		holds, err := repo.ListActive(ctx, "prov-1", "2026-11-02", expires.Add(-before))
		require.NoError(t, err)
		require.Len(t, holds, 1, "hold %s before expiry", before)
		assert.Equal(t, "h1", holds[0].ID)
	}

	holds, err := repo.ListActive(ctx, "prov-1", "2026-11-02", expires)
	require.NoError(t, err)
	assert.Empty(t, holds)
}
