package mail

import (
	"context"
	"io"
)

// Message represents one transactional email.
type Message struct {
	// From is the sender address.
	From string
	// To is the single recipient address.
	To string
	// Subject is the email subject line.
	Subject string
	// HTMLBody is the HTML part, sent first.
	HTMLBody string
	// TextBody is the plain-text part.
	TextBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	// Implementations must not retry.
	Send(ctx context.Context, msg Message) error
}
