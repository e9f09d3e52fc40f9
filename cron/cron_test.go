package cron

import (
	"context"
	"errors"
	"testing"

	missionRepo "carebook/database/repository/mission"
	"carebook/models"
	"carebook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIntegrityScanFindsOverlaps(t *testing.T) {
	repo := missionRepo.NewMemoryMissionRepo()
	repo.Insert(&models.Mission{ID: "a", ProviderID: "p1", Date: "2026-11-02", Times: []string{"09:00", "09:30", "10:00"}, Status: models.StatusAssigned})
	repo.Insert(&models.Mission{ID: "b", ProviderID: "p1", Date: "2026-11-02", Times: []string{"10:00", "10:30"}, Status: models.StatusPending})
	repo.Insert(&models.Mission{ID: "c", ProviderID: "p1", Date: "2026-11-02", Times: []string{"09:30"}, Status: models.StatusCancelled})
	repo.Insert(&models.Mission{ID: "d", ProviderID: "p2", Date: "2026-11-02", Times: []string{"09:00"}, Status: models.StatusPending})
	repo.Insert(&models.Mission{ID: "e", ProviderID: "p1", Date: "2026-11-03", Times: []string{"09:00"}, Status: models.StatusPending})

	scanner := &IntegrityScanner{Repo: repo, Logger: zap.NewNop()}
	violations, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, []string{"10:00"}, violations[0].Times)
	assert.ElementsMatch(t, []string{"a", "b"}, []string{violations[0].MissionA, violations[0].MissionB})

	// nothing is repaired
	m, err := repo.GetByID(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, m.Status)
}

func TestIntegrityScanCleanData(t *testing.T) {
	repo := missionRepo.NewMemoryMissionRepo()
	require.NoError(t, repo.Create(context.Background(), &models.Mission{ID: "a", ProviderID: "p1", Date: "2026-11-02", Times: []string{"09:00"}, Status: models.StatusPending}))
	require.NoError(t, repo.Create(context.Background(), &models.Mission{ID: "b", ProviderID: "p1", Date: "2026-11-02", Times: []string{"09:30"}, Status: models.StatusPending}))

	violations, err := (&IntegrityScanner{Repo: repo, Logger: zap.NewNop()}).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

type stubSender struct {
	got []models.Notification
	err error
}

func (s *stubSender) Send(_ context.Context, n models.Notification) error {
	s.got = append(s.got, n)
	return s.err
}

func TestHandleNotificationTask(t *testing.T) {
	sender := &stubSender{}
	handler := handleNotificationTask(sender, zap.NewNop())

	task, _, err := tasks.NewNotificationTask(models.Notification{Template: "mission_booked", Recipient: models.Recipient{Role: models.RoleCustomer, ID: "c1"}})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, sender.got, 1)

	sender.err = errors.New("fcm down")
	assert.Error(t, handler(context.Background(), task))

	err = handler(context.Background(), asynq.NewTask(tasks.TypeNotificationSend, []byte("nope")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
