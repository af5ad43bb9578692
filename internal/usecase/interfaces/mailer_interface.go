package interfaces

import "context"

// IMailer abstracts outbound email delivery. Every send in the core is
// fire-and-forget: failures are logged by the caller and never propagated.
type IMailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
