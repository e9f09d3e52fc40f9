package hold

import (
	"context"
	"testing"
	"time"

	holdRepo "carebook/database/repository/hold"
	"carebook/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHoldService(t *testing.T) *DefaultHoldService {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewHoldService(holdRepo.NewRedisHoldRepo(client), 15*time.Minute, zap.NewNop())
}

func TestPlaceAndActiveHolds(t *testing.T) {
	svc := newTestHoldService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, "cust-1", "prov-1", "svc", "2026-11-02", []string{"10:00", "10:30"})
	require.NoError(t, err)
	// overlapping holds are allowed
	_, err = svc.Place(ctx, "cust-2", "prov-1", "svc", "2026-11-02", []string{"09:30", "10:00"})
	require.NoError(t, err)

	times, err := svc.ActiveHoldsFor(ctx, "prov-1", "2026-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30", "10:00", "10:30"}, times)

	times, err = svc.ActiveHoldsFor(ctx, "prov-1", "2026-11-03")
	require.NoError(t, err)
	assert.Empty(t, times)
}

func TestPlaceValidation(t *testing.T) {
	svc := newTestHoldService(t)
	var verr *services.ValidationError

	_, err := svc.Place(context.Background(), "cust-1", "prov-1", "svc", "2026-11-02", []string{"10:00", "11:00"})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Place(context.Background(), "cust-1", "prov-1", "svc", "tomorrow", []string{"10:00"})
	assert.ErrorAs(t, err, &verr)
}

func TestExpiredHoldsAreIgnored(t *testing.T) {
	svc := newTestHoldService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, "cust-1", "prov-1", "svc", "2026-11-02", []string{"10:00"})
	require.NoError(t, err)

	svc.Now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	times, err := svc.ActiveHoldsFor(ctx, "prov-1", "2026-11-02")
	require.NoError(t, err)
	assert.Empty(t, times)
}

func TestReleaseOwnership(t *testing.T) {
	svc := newTestHoldService(t)
	ctx := context.Background()

	h, err := svc.Place(ctx, "cust-1", "prov-1", "svc", "2026-11-02", []string{"10:00"})
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, h.ID, "cust-2"))
	times, _ := svc.ActiveHoldsFor(ctx, "prov-1", "2026-11-02")
	assert.Equal(t, []string{"10:00"}, times, "foreign release is a no-op")

	require.NoError(t, svc.Release(ctx, h.ID, "cust-1"))
	times, _ = svc.ActiveHoldsFor(ctx, "prov-1", "2026-11-02")
	assert.Empty(t, times)

	assert.NoError(t, svc.Release(ctx, "missing", "cust-1"))
}

func TestReleaseAllFor(t *testing.T) {
	svc := newTestHoldService(t)
	ctx := context.Background()

	_, err := svc.Place(ctx, "cust-1", "prov-1", "svc", "2026-11-02", []string{"10:00"})
	require.NoError(t, err)
	_, err = svc.Place(ctx, "cust-1", "prov-1", "svc", "2026-11-02", []string{"11:00"})
	require.NoError(t, err)
	_, err = svc.Place(ctx, "cust-2", "prov-1", "svc", "2026-11-02", []string{"12:00"})
	require.NoError(t, err)

	require.NoError(t, svc.ReleaseAllFor(ctx, "cust-1", "prov-1", "2026-11-02"))
	times, err := svc.ActiveHoldsFor(ctx, "prov-1", "2026-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00"}, times)
}
