package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	missionRepo "carebook/database/repository/mission"
	providerRepo "carebook/database/repository/provider"
	"carebook/models"
	"carebook/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubHolds struct {
	times []string
	err   error
}

func (s stubHolds) ActiveHoldsFor(context.Context, string, string) ([]string, error) {
	return s.times, s.err
}

func newTestService(t *testing.T, holds HoldLister) (*DefaultAvailabilityService, *missionRepo.MemoryMissionRepo) {
	t.Helper()
	providers := providerRepo.NewMemoryProviderRepo()
	providers.PutProvider(models.Provider{
		ID:           "prov-1",
		Availability: models.WeeklyAvailability{{Weekday: "monday", Times: morning}},
	})
	missions := missionRepo.NewMemoryMissionRepo()

	svc := NewAvailabilityService(providers, missions, holds,
		Matcher{Lead: 24 * time.Hour, Location: time.UTC}, zap.NewNop())
	svc.Now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return svc, missions
}

func TestQueryAvailabilityOpenMorning(t *testing.T) {
	svc, _ := newTestService(t, nil)

	resp, err := svc.QueryAvailability(context.Background(), "prov-1", "2026-11-02", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, resp.Starts)
	require.Len(t, resp.Blocks, 3)
	assert.Equal(t, "11:00", resp.Blocks[0].End)
}

func TestQueryAvailabilityAfterBooking(t *testing.T) {
	svc, missions := newTestService(t, nil)
	require.NoError(t, missions.Create(context.Background(), &models.Mission{
		ID: "m1", ProviderID: "prov-1", Date: "2026-11-02",
		Times: []string{"10:00", "10:30"}, Status: models.StatusPending,
	}))

	resp, err := svc.QueryAvailability(context.Background(), "prov-1", "2026-11-02", 2)
	require.NoError(t, err)
	assert.Empty(t, resp.Starts)

	resp, err = svc.QueryAvailability(context.Background(), "prov-1", "2026-11-02", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, resp.Starts)
}

func TestQueryAvailabilityExcludesHolds(t *testing.T) {
	svc, _ := newTestService(t, stubHolds{times: []string{"09:30"}})

	resp, err := svc.QueryAvailability(context.Background(), "prov-1", "2026-11-02", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, resp.Starts)
}

func TestQueryAvailabilityIgnoresFailingHoldStore(t *testing.T) {
	svc, _ := newTestService(t, stubHolds{err: errors.New("redis down")})

	resp, err := svc.QueryAvailability(context.Background(), "prov-1", "2026-11-02", 2)
	require.NoError(t, err)
	assert.Len(t, resp.Starts, 3)
}

func TestQueryAvailabilityEdgeCases(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.QueryAvailability(ctx, "prov-1", "2026-11-03", 2)
	require.NoError(t, err)
	assert.Empty(t, resp.Starts, "tuesday is not listed")

	resp, err = svc.QueryAvailability(ctx, "prov-1", "2026-11-02", 1.25)
	require.NoError(t, err)
	assert.Empty(t, resp.Starts)

	_, err = svc.QueryAvailability(ctx, "prov-1", "02/11/2026", 2)
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.QueryAvailability(ctx, "ghost", "2026-11-02", 2)
	var nf *services.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestAlternatives(t *testing.T) {
	svc, _ := newTestService(t, nil)
	starts, err := svc.Alternatives(context.Background(), "prov-1", "2026-11-02", 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, starts)
}

func TestSetAvailability(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	provider := models.Actor{ID: "prov-1", Role: models.RoleProvider}

	weekly, err := svc.SetAvailability(ctx, provider, "prov-1", []models.DayAvailability{
		{Weekday: "Wed", Times: []string{"14:00", "9:00", "09:00"}},
	})
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, "wednesday", weekly[0].Weekday)
	assert.Equal(t, []string{"09:00", "14:00"}, weekly[0].Times)

	resp, err := svc.QueryAvailability(ctx, "prov-1", "2026-11-04", 0.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:00"}, resp.Starts)

	_, err = svc.SetAvailability(ctx, provider, "prov-1", []models.DayAvailability{{Weekday: "monday", Times: []string{"09:15"}}})
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.SetAvailability(ctx, models.Actor{ID: "other", Role: models.RoleProvider}, "prov-1", nil)
	var guard *services.GuardError
	require.ErrorAs(t, err, &guard)
	assert.True(t, guard.Forbidden)

	_, err = svc.SetAvailability(ctx, models.Actor{ID: "root", Role: models.RoleAdmin}, "ghost", nil)
	var nf *services.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
