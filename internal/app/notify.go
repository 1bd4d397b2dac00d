package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-portal/internal/config"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/notify"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/riskibarqy/tournament-portal/internal/platform/resilience"
)

func newDispatcher(ctx context.Context, cfg config.Config, logger *logging.Logger) (*notify.Dispatcher, error) {
	senders, err := buildSenders(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return notify.NewDispatcher(notify.DispatcherConfig{
		Workers:     cfg.NotifyWorkers,
		SendTimeout: cfg.NotifySendTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NotifyCircuitEnabled,
			FailureThreshold: cfg.NotifyCircuitFailureCount,
			OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMax,
		},
	}, logger, senders...)
}

func buildSenders(ctx context.Context, cfg config.Config, logger *logging.Logger) ([]notification.Sender, error) {
	senders := make([]notification.Sender, 0, len(cfg.NotifyChannels))
	for _, ch := range cfg.NotifyChannels {
		switch ch {
		case config.NotifyChannelLog:
			senders = append(senders, notify.NewLogSender(logger))
		case config.NotifyChannelSES:
			ses, err := notify.NewSESSender(ctx, notify.SESConfig{
				Region:          cfg.SESRegion,
				AccessKeyID:     cfg.SESAccessKeyID,
				SecretAccessKey: cfg.SESSecretAccessKey,
				Sender:          cfg.SESSender,
			})
			if err != nil {
				return nil, fmt.Errorf("build ses sender: %w", err)
			}
			senders = append(senders, ses)
		case config.NotifyChannelWebhook:
			hook, err := notify.NewWebhookSender(notify.WebhookConfig{
				URL:     cfg.WebhookURL,
				Token:   cfg.WebhookToken,
				Timeout: cfg.WebhookTimeout,
			})
			if err != nil {
				return nil, fmt.Errorf("build webhook sender: %w", err)
			}
			senders = append(senders, hook)
		}
	}
	logger.Info("notification channels configured", "channels", cfg.NotifyChannels)
	return senders, nil
}
