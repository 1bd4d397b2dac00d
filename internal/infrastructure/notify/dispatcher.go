package notify

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/riskibarqy/tournament-portal/internal/platform/resilience"
	"github.com/sourcegraph/conc"
)

const (
	defaultWorkers     = 4
	defaultSendTimeout = 15 * time.Second
)

type DispatcherConfig struct {
	Workers        int
	SendTimeout    time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type channel struct {
	sender  notification.Sender
	breaker *resilience.CircuitBreaker
}

// Dispatcher delivers notifications asynchronously on a bounded worker pool.
// Every message goes to every configured channel; failures are logged and
// never reach the caller.
type Dispatcher struct {
	pool     *ants.Pool
	channels []channel
	timeout  time.Duration
	logger   *logging.Logger
}

func NewDispatcher(cfg DispatcherConfig, logger *logging.Logger, senders ...notification.Sender) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	channels := make([]channel, 0, len(senders))
	for _, s := range senders {
		if s == nil {
			continue
		}
		channels = append(channels, channel{
			sender:  s,
			breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		})
	}

	return &Dispatcher{
		pool:     pool,
		channels: channels,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Notify queues msg. The request context only contributes trace values; its
// cancellation does not abort delivery.
func (d *Dispatcher) Notify(ctx context.Context, msg notification.Message) {
	if len(d.channels) == 0 {
		return
	}
	if msg.To == "" {
		d.logger.WarnContext(ctx, "notification dropped without recipient", "kind", msg.Kind)
		return
	}

	detached := context.WithoutCancel(ctx)
	if err := d.pool.Submit(func() { d.deliver(detached, msg) }); err != nil {
		d.logger.WarnContext(ctx, "notification dropped", "kind", msg.Kind, "error", err)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg notification.Message) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var wg conc.WaitGroup
	for _, ch := range d.channels {
		wg.Go(func() {
			err := ch.breaker.Execute(func() error {
				return ch.sender.Send(ctx, msg)
			})
			switch {
			case err == nil:
				d.logger.DebugContext(ctx, "notification sent", "channel", ch.sender.Name(), "kind", msg.Kind)
			case errors.Is(err, resilience.ErrCircuitOpen):
				d.logger.WarnContext(ctx, "notification channel open, skipped", "channel", ch.sender.Name(), "kind", msg.Kind)
			default:
				d.logger.ErrorContext(ctx, "notification delivery failed", "channel", ch.sender.Name(), "kind", msg.Kind, "error", err)
			}
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		d.logger.ErrorContext(ctx, "notification sender panicked", "kind", msg.Kind, "panic", recovered.String())
	}
}

// Close waits up to timeout for queued deliveries.
func (d *Dispatcher) Close(timeout time.Duration) error {
	return d.pool.ReleaseTimeout(timeout)
}
