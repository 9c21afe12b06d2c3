package email

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EmailClient sends transactional email on behalf of one fixed sender.
//
// It is built once at startup and shared by every request; nothing in it is
// mutated after construction.
type EmailClient struct {
	sender    entity.SubscriberEmail
	transport mail.Mail
	ins       instrument.Instrumentation
}

func NewEmailClient(sender entity.SubscriberEmail, transport mail.Mail, ins instrument.Instrumentation) *EmailClient {
	return &EmailClient{sender: sender, transport: transport, ins: ins}
}

// SendEmail dispatches a single email to recipient. Provider errors
// (*mail.RemoteRejectedError, *mail.TransportError) are returned as is;
// retrying is up to the caller.
func (c *EmailClient) SendEmail(ctx context.Context, recipient entity.SubscriberEmail, subject, htmlContent, textContent string) error {
	ctx, span := c.ins.Tracer("subscription.outbound.email").Start(ctx, "SendEmail")
	defer span.End()

	span.SetAttributes(attribute.String("email.subject", subject))

	err := c.transport.Send(ctx, mail.Message{
		From:     c.sender.String(),
		To:       recipient.String(),
		Subject:  subject,
		HTMLBody: htmlContent,
		TextBody: textContent,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
