package notification

import "context"

type Kind string

const (
	KindRegistrationReceived Kind = "registration_received"
	KindTeamApproved         Kind = "team_approved"
	KindTeamRejected         Kind = "team_rejected"
	KindTeamDisqualified     Kind = "team_disqualified"
	KindMatchScheduled       Kind = "match_scheduled"
	KindMatchRescheduled     Kind = "match_rescheduled"
	KindMatchCancelled       Kind = "match_cancelled"
	KindRegistrationsOpened  Kind = "registrations_opened"
	KindPasswordReset        Kind = "password_reset"
	KindWelcome              Kind = "welcome"
)

// Message is one outbound notification to a single recipient.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// Sender delivers a message over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
