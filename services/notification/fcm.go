package notification

import (
	"context"
	"errors"
	"fmt"

	providerRepo "carebook/database/repository/provider"
	"carebook/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// MessageSender is the part of *messaging.Client used for delivery.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers notifications as Firebase push messages.
type FCMSender struct {
	client MessageSender
	tokens TokenLookup
	logger *zap.Logger
}

func NewFCMSender(client MessageSender, tokens TokenLookup, logger *zap.Logger) *FCMSender {
	return &FCMSender{client: client, tokens: tokens, logger: logger}
}

// Send pushes n to the recipient's device. Recipients without a device are
// skipped without error, so the task is not retried.
func (s *FCMSender) Send(ctx context.Context, n models.Notification) error {
	token, err := s.tokens.DeviceToken(ctx, n.Recipient)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			s.logger.Warn("Notification recipient not found",
				zap.String("role", n.Recipient.Role), zap.String("recipient", n.Recipient.ID))
			return nil
		}
		return fmt.Errorf("failed to look up device token: %w", err)
	}
	if token == "" {
		s.logger.Debug("Recipient has no device token",
			zap.String("role", n.Recipient.Role), zap.String("recipient", n.Recipient.ID))
		return nil
	}

	title, body := Render(n)
	data := make(map[string]string, len(n.Data)+2)
	for k, v := range n.Data {
		data[k] = v
	}
	data["template"] = n.Template
	data["role"] = n.Recipient.Role

	msg := &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
	}
	resp, err := s.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	s.logger.Info("Push notification sent",
		zap.String("template", n.Template),
		zap.String("recipient", n.Recipient.ID),
		zap.String("messageID", resp))
	return nil
}
