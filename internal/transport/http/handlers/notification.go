package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/port"
	appLogger "github.com/syedukkashah/university-library/internal/infra/logger"
)

type noopDispatcher struct{}

func (noopDispatcher) SendWelcome(ctx context.Context, email, fullName string) error {
	return nil
}

func (noopDispatcher) SendAccountDecision(ctx context.Context, email, fullName string, approved bool) error {
	return nil
}

// LoggingNotificationDispatcher records notification dispatch events for
// observability without delivering them. Mail delivery is handled by a
// downstream consumer of the published events.
type LoggingNotificationDispatcher struct {
	logger *zap.Logger
}

// NewLoggingNotificationDispatcher constructs a notification dispatcher backed by structured logging.
func NewLoggingNotificationDispatcher(logger *zap.Logger) port.NotificationDispatcher {
	if logger == nil {
		return noopDispatcher{}
	}
	return &LoggingNotificationDispatcher{logger: logger}
}

func (d *LoggingNotificationDispatcher) SendWelcome(ctx context.Context, email, fullName string) error {
	if d == nil || d.logger == nil {
		return nil
	}

	d.logger.Info("dispatch welcome notification",
		zap.String("email", appLogger.MaskEmail(email)),
		zap.String("full_name", fullName),
	)
	return nil
}

func (d *LoggingNotificationDispatcher) SendAccountDecision(ctx context.Context, email, fullName string, approved bool) error {
	if d == nil || d.logger == nil {
		return nil
	}

	d.logger.Info("dispatch account decision notification",
		zap.String("email", appLogger.MaskEmail(email)),
		zap.String("full_name", fullName),
		zap.Bool("approved", approved),
	)
	return nil
}
