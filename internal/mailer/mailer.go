package mailer

import "context"

// Mailer defines the interface for outgoing mail. The program/workout core
// never touches it; it exists for onboarding (temporary-password delivery)
// and is kept narrow so tests can drop in a fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
