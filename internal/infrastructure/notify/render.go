package notify

import (
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/valyala/bytebufferpool"
)

const signature = "\nBest regards,\nTournament Portal Team\n"

// renderText returns the plain-text email body with the portal signature.
func renderText(msg notification.Message) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(msg.Body)
	if !strings.HasSuffix(msg.Body, "\n") {
		_ = buf.WriteByte('\n')
	}
	_, _ = buf.WriteString(signature)
	return buf.String()
}
