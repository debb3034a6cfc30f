package ports

import "context"

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To       string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailResult reports the outcome of a delivery attempt. Transport failures
// are captured here as values; they must never escape Send as an error.
type EmailResult struct {
	Sent      bool
	MessageID string
	Err       error
}

// EmailSender delivers a message to an address. Delivery is best-effort and
// non-fatal to every workflow that uses it.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) EmailResult
}
