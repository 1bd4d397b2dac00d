package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sesClientMock struct {
	mock.Mock
}

func (m *sesClientMock) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput)
	return out, args.Error(1)
}

func TestSESSender_BuildsSimpleEmail(t *testing.T) {
	t.Parallel()

	client := &sesClientMock{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "portal@example.com" &&
			len(in.Destination.ToAddresses) == 1 &&
			in.Destination.ToAddresses[0] == "neo@example.com" &&
			aws.ToString(in.Content.Simple.Subject.Data) == "Team Approved - Alpha"
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil).Once()

	sender := newSESSender(client, " portal@example.com ")
	err := sender.Send(t.Context(), notification.Message{
		Kind:    notification.KindTeamApproved,
		To:      "neo@example.com",
		Subject: "Team Approved - Alpha",
		Body:    "Hi neo,\n",
	})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSESSender_WrapsFailures(t *testing.T) {
	t.Parallel()

	client := &sesClientMock{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	sender := newSESSender(client, "portal@example.com")
	err := sender.Send(t.Context(), notification.Message{Kind: notification.KindWelcome, To: "neo@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send ses email kind=welcome")
	assert.Contains(t, err.Error(), "throttled")

	err = sender.Send(t.Context(), notification.Message{Kind: notification.KindWelcome})
	require.Error(t, err)
}

func TestWebhookSender_PostsJSON(t *testing.T) {
	t.Parallel()

	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer hook-secret" {
			t.Errorf("unexpected authorization: %q", auth)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewWebhookSender(WebhookConfig{URL: srv.URL, Token: "hook-secret", Timeout: 2 * time.Second})
	require.NoError(t, err)
	sender.now = func() time.Time { return time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC) }

	err = sender.Send(t.Context(), notification.Message{
		Kind:    notification.KindMatchScheduled,
		To:      "neo@example.com",
		Subject: "Match Scheduled",
		Body:    "Alpha vs Bravo",
	})
	require.NoError(t, err)
	assert.Equal(t, "match_scheduled", got.Kind)
	assert.Equal(t, "neo@example.com", got.To)
	assert.Equal(t, "2026-03-02T10:00:00Z", got.SentAt)
	assert.Contains(t, got.Body, "Alpha vs Bravo")
}

func TestWebhookSender_ReportsNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	sender, err := NewWebhookSender(WebhookConfig{URL: srv.URL})
	require.NoError(t, err)
	err = sender.Send(t.Context(), notification.Message{Kind: notification.KindWelcome, To: "neo@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")

	_, err = NewWebhookSender(WebhookConfig{URL: "ftp://example.com"})
	require.Error(t, err)
}
