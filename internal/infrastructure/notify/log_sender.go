package notify

import (
	"context"

	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

// LogSender writes messages to the application log. It is the default
// channel in development.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(ctx context.Context, msg notification.Message) error {
	s.logger.InfoContext(ctx, "notification",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
