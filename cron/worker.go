package cron

import (
	"context"
	"fmt"
	"time"

	"carebook/services/notification"
	"carebook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker delivers queued notifications and runs the periodic integrity scan.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	scanCron  string
	logger    *zap.Logger
}

func NewWorker(redisOpts asynq.RedisClientOpt, sender notification.Sender, scanner *IntegrityScanner, scanCron string, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationSend, handleNotificationTask(sender, logger))
	mux.HandleFunc(tasks.TypeIntegrityScan, handleIntegrityScanTask(scanner))

	return &Worker{
		server:    srv,
		scheduler: asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC}),
		mux:       mux,
		scanCron:  scanCron,
		logger:    logger,
	}
}

// Start launches the task server and the scheduler in the background,
// retrying startup with backoff.
func (w *Worker) Start() error {
	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = w.server.Start(w.mux); err == nil {
			break
		}
		w.logger.Warn("Failed to start task worker",
			zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
	if err != nil {
		return fmt.Errorf("task worker: %w", err)
	}

	if w.scanCron != "" {
		entryID, err := w.scheduler.Register(w.scanCron, tasks.NewIntegrityScanTask())
		if err != nil {
			return fmt.Errorf("register integrity scan %q: %w", w.scanCron, err)
		}
		if err := w.scheduler.Start(); err != nil {
			return fmt.Errorf("task scheduler: %w", err)
		}
		w.logger.Info("Integrity scan scheduled", zap.String("cron", w.scanCron), zap.String("entryID", entryID))
	}
	w.logger.Info("Task worker started")
	return nil
}

func (w *Worker) Shutdown() {
	if w.scanCron != "" {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
}

func handleNotificationTask(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := tasks.ParseNotificationTask(task)
		if err != nil {
			logger.Error("Dropping invalid notification task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := sender.Send(ctx, n); err != nil {
			logger.Warn("Notification delivery failed",
				zap.String("template", n.Template),
				zap.String("recipient", n.Recipient.ID),
				zap.Error(err))
			return err
		}
		return nil
	}
}

func handleIntegrityScanTask(scanner *IntegrityScanner) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := scanner.Scan(ctx)
		return err
	}
}
