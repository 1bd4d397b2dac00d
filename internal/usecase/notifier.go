package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

// Notifier delivers messages out of band. Implementations never report
// failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, notification.Message) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// notifyUsers resolves recipients by id and sends one message per user.
// Lookup failures are logged and dropped.
func notifyUsers(
	ctx context.Context,
	users user.Repository,
	notifier Notifier,
	logger *logging.Logger,
	userIDs []string,
	build func(u user.User) notification.Message,
) int {
	ids := uniqueStrings(userIDs)
	if len(ids) == 0 {
		return 0
	}

	recipients, err := users.ListByIDs(ctx, ids)
	if err != nil {
		logger.WarnContext(ctx, "resolve notification recipients failed", "error", err, "count", len(ids))
		return 0
	}
	for _, u := range recipients {
		msg := build(u)
		if msg.To == "" {
			msg.To = u.Email
		}
		notifier.Notify(ctx, msg)
	}
	return len(recipients)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func greeting(u user.User) string {
	return fmt.Sprintf("Hi %s,\n\n", u.Username)
}
