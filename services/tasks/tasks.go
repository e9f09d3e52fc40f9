package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"carebook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeNotificationSend = "notification:send"
	TypeIntegrityScan    = "integrity:scan"
)

// NewNotificationTask wraps a notification for the delivery worker.
func NewNotificationTask(n models.Notification) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.NotificationPayload{Notification: n})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationSend, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

// ParseNotificationTask decodes a task built by NewNotificationTask.
func ParseNotificationTask(t *asynq.Task) (models.Notification, error) {
	var p models.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return models.Notification{}, fmt.Errorf("invalid notification payload: %w", err)
	}
	return p.Notification, nil
}

// NewIntegrityScanTask builds the periodic overlap scan. The scan never
// retries: the next scheduled run covers the same ground.
func NewIntegrityScanTask() *asynq.Task {
	return asynq.NewTask(TypeIntegrityScan, nil, asynq.MaxRetry(0))
}
