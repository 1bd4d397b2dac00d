package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/riskibarqy/tournament-portal/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name string
	err  error

	mu   sync.Mutex
	sent []notification.Message
}

func (s *fakeSender) Name() string { return s.name }

func (s *fakeSender) Send(ctx context.Context, msg notification.Message) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcher_FansOutToEveryChannel(t *testing.T) {
	t.Parallel()

	failing := &fakeSender{name: "webhook", err: errors.New("boom")}
	ok := &fakeSender{name: "log"}
	d, err := NewDispatcher(DispatcherConfig{Workers: 2}, logging.NewNop(), ok, failing, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	d.Notify(ctx, notification.Message{Kind: notification.KindTeamApproved, To: "neo@example.com", Subject: "Approved"})
	cancel()

	require.NoError(t, d.Close(5*time.Second))
	assert.Equal(t, 1, ok.count())
	assert.Equal(t, 1, failing.count())
}

func TestDispatcher_DropsMessagesWithoutRecipient(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{name: "log"}
	d, err := NewDispatcher(DispatcherConfig{}, logging.NewNop(), sender)
	require.NoError(t, err)

	d.Notify(t.Context(), notification.Message{Kind: notification.KindWelcome})
	require.NoError(t, d.Close(5*time.Second))
	assert.Zero(t, sender.count())
}

func TestDispatcher_BreakerStopsCallingFailingChannel(t *testing.T) {
	t.Parallel()

	failing := &fakeSender{name: "ses", err: errors.New("throttled")}
	d, err := NewDispatcher(DispatcherConfig{
		Workers: 1,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Hour,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop(), failing)
	require.NoError(t, err)

	msg := notification.Message{Kind: notification.KindMatchScheduled, To: "neo@example.com"}
	for i := 0; i < 4; i++ {
		d.deliver(t.Context(), msg)
	}
	require.NoError(t, d.Close(time.Second))
	assert.Equal(t, 2, failing.count())
}

func TestRenderText_AppendsSignature(t *testing.T) {
	t.Parallel()

	out := renderText(notification.Message{Body: "Hi neo,\n\nYour team was approved."})
	assert.Equal(t, "Hi neo,\n\nYour team was approved.\n"+signature, out)
}
