package tasks

import (
	"testing"
	"time"

	"carebook/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationTaskRoundTrip(t *testing.T) {
	n := models.Notification{
		Recipient: models.Recipient{Role: models.RoleProvider, ID: "prov-1"},
		Template:  "mission_booked",
		Data:      map[string]string{"missionId": "m1"},
		CreatedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}
	task, opts, err := NewNotificationTask(n)
	require.NoError(t, err)
	assert.Equal(t, TypeNotificationSend, task.Type())
	assert.NotEmpty(t, opts)

	got, err := ParseNotificationTask(task)
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestParseNotificationTaskRejectsGarbage(t *testing.T) {
	_, err := ParseNotificationTask(asynq.NewTask(TypeNotificationSend, []byte("{")))
	assert.Error(t, err)
}
