package notification

import (
	"context"

	"carebook/models"
	"carebook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier enqueues notifications for the cron worker.
type QueueNotifier struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueueNotifier(client Enqueuer, logger *zap.Logger) *QueueNotifier {
	return &QueueNotifier{client: client, logger: logger}
}

func (q *QueueNotifier) Notify(ctx context.Context, n models.Notification) {
	task, opts, err := tasks.NewNotificationTask(n)
	if err != nil {
		q.logger.Error("Failed to build notification task", zap.String("template", n.Template), zap.Error(err))
		return
	}
	// The caller's context may be cancelled right after it returns.
	info, err := q.client.EnqueueContext(context.WithoutCancel(ctx), task, opts...)
	if err != nil {
		q.logger.Warn("Failed to enqueue notification",
			zap.String("template", n.Template),
			zap.String("recipient", n.Recipient.ID),
			zap.Error(err))
		return
	}
	q.logger.Debug("Notification enqueued",
		zap.String("taskID", info.ID),
		zap.String("template", n.Template),
		zap.String("recipient", n.Recipient.ID))
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, models.Notification) {}
