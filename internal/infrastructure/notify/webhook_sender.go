package notify

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const defaultWebhookTimeout = 10 * time.Second

type WebhookConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type webhookPayload struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	SentAt  string `json:"sent_at"`
}

// WebhookSender relays messages as JSON to an HTTP endpoint, for example a
// mail relay or a chat integration.
type WebhookSender struct {
	client  *fasthttp.Client
	url     string
	token   string
	timeout time.Duration
	now     func() time.Time
}

func NewWebhookSender(cfg WebhookConfig) (*WebhookSender, error) {
	target := strings.TrimSpace(cfg.URL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return nil, crerr.Newf("webhook url %q must use http or https", target)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	return &WebhookSender{
		client: &fasthttp.Client{
			Name:                "tournament-portal-notify",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		now:     time.Now,
	}, nil
}

func (s *WebhookSender) Name() string { return "webhook" }

func (s *WebhookSender) Send(ctx context.Context, msg notification.Message) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(webhookPayload{
		Kind:    string(msg.Kind),
		To:      msg.To,
		Subject: msg.Subject,
		Body:    renderText(msg),
		SentAt:  s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return crerr.Wrap(err, "marshal webhook payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.SetBody(buf.B)

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return crerr.Wrapf(err, "post webhook kind=%s", msg.Kind)
	}
	if status := resp.StatusCode(); status/100 != 2 {
		body := resp.Body()
		if len(body) > 512 {
			body = body[:512]
		}
		return crerr.Newf("webhook responded status=%d body=%s", status, strings.TrimSpace(string(body)))
	}
	return nil
}
