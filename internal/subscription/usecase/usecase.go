package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/idempotency"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"go.opentelemetry.io/otel/trace"
)

type SubscriptionConfirmedEvent struct {
	SubscriptionID string
	Email          string
	Name           string
}

type repoMessaging interface {
	PublishSubscriptionConfirmed(ctx context.Context, msg SubscriptionConfirmedEvent) error
}

type repoDB interface {
	GetSubscriptionByEmail(ctx context.Context, email string) (*entity.Subscription, error)
	GetSubscriptionByToken(ctx context.Context, tokenHash string) (*entity.Subscription, *entity.SubscriptionToken, error)

	CreateSubscription(ctx context.Context, sub entity.Subscription, token entity.SubscriptionToken) error
	CreateToken(ctx context.Context, token entity.SubscriptionToken) error
	CreateDelivery(ctx context.Context, d entity.Delivery) error

	ConfirmSubscription(ctx context.Context, id string) (bool, error)
}

type emailSender interface {
	SendEmail(ctx context.Context, recipient entity.SubscriberEmail, subject, htmlContent, textContent string) error
}

type renderer interface {
	Render(ctx context.Context, name entity.EmailTemplate, data entity.EmailData) (entity.EmailContent, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	email         emailSender
	renderer      renderer
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	token         uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Email         emailSender
	Renderer      renderer
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	Token         uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		email:         dep.Email,
		renderer:      dep.Renderer,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		uuid:          dep.UUID,
		token:         dep.Token,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("subscription.usecase").Start(ctx, name)
}

type sendPolicy struct {
	base        time.Duration
	retries     int
	maxDuration time.Duration
	timeout     time.Duration
}

func (s *Usecase) sendPolicy() sendPolicy {
	p := sendPolicy{
		base:        time.Duration(s.cfg.GetInt("modules.subscription.send_retry.base_delay_milliseconds")) * time.Millisecond,
		retries:     max(s.cfg.GetInt("modules.subscription.send_retry.max_retries"), 0),
		maxDuration: s.cfg.GetSecond("modules.subscription.send_retry.max_duration_seconds"),
		timeout:     time.Duration(s.cfg.GetInt("email_client.timeout_milliseconds")) * time.Millisecond,
	}
	if p.base <= 0 {
		p.base = 200 * time.Millisecond
	}
	if p.timeout <= 0 {
		p.timeout = mail.DefaultSendGridTimeout
	}
	return p
}

func (s *Usecase) sendBackoff() retry.Backoff {
	p := s.sendPolicy()

	b := retry.WithMaxRetries(uint64(p.retries), retry.NewExponential(p.base))
	if p.maxDuration > 0 {
		b = retry.WithMaxDuration(p.maxDuration, b)
	}

	return b
}

// subscribeLockMargin covers the repository calls and rendering around a send.
const subscribeLockMargin = 10 * time.Second

// subscribeLock is how long one Subscribe holds the lock on its email: the
// configured floor or the longest the send retry policy can take plus a
// margin, whichever is larger. Max duration only stops new attempts, so the
// attempt in flight when it expires still counts in full.
func (s *Usecase) subscribeLock() time.Duration {
	p := s.sendPolicy()

	worst := time.Duration(p.retries+1) * p.timeout
	for i := 0; i < p.retries; i++ {
		wait := p.base << i
		if wait <= 0 || wait > 24*time.Hour {
			wait = 24 * time.Hour
		}
		worst += wait
	}
	if p.maxDuration > 0 {
		worst = min(worst, p.maxDuration+p.timeout)
	}

	return max(s.cfg.GetSecond("modules.subscription.idempotency_lock_seconds"), worst+subscribeLockMargin)
}

// isRetryableSend reports whether a provider error may succeed on another attempt.
func isRetryableSend(err error) bool {
	var rejected *mail.RemoteRejectedError
	if errors.As(err, &rejected) {
		return rejected.Retryable()
	}

	return errors.Is(err, mail.ErrTransport) && !errors.Is(err, context.Canceled)
}

// deliver renders the template, sends it under the retry policy and records
// the outcome. The returned error is the last send error, if any.
func (s *Usecase) deliver(
	ctx context.Context,
	sub *entity.Subscription,
	kind entity.DeliveryKind,
	tmpl entity.EmailTemplate,
	subject string,
	data entity.EmailData,
) error {
	recipient, err := entity.ParseSubscriberEmail(sub.Email)
	if err != nil {
		slog.ErrorContext(ctx, "stored subscriber email is invalid", "subscription_id", sub.ID, "error", err)
		return err
	}

	content, err := s.renderer.Render(ctx, tmpl, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email template", "template", tmpl.String(), "error", err)
		return err
	}

	attempt := 0
	sendErr := retry.Do(ctx, s.sendBackoff(), func(ctx context.Context) error {
		attempt++
		err := s.email.SendEmail(ctx, recipient, subject, content.HTML, content.Text)
		if err != nil && isRetryableSend(err) {
			slog.WarnContext(ctx, "email send attempt failed", "subscription_id", sub.ID, "kind", string(kind), "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})

	delivery := entity.Delivery{
		ID:             s.uid.Generate(),
		SubscriptionID: sub.ID,
		Kind:           kind,
		Status:         entity.DeliveryStatusSent,
		CreatedAt:      s.clock.Now(),
	}
	if sendErr != nil {
		delivery.Status = entity.DeliveryStatusFailed
		delivery.Error = sendErr.Error()
	}

	if err := s.repoDB.CreateDelivery(ctx, delivery); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery", "subscription_id", sub.ID, "kind", string(kind), "error", err)
	}

	if sendErr != nil {
		slog.ErrorContext(ctx, "failed to send email", "subscription_id", sub.ID, "kind", string(kind), "attempts", attempt, "error", sendErr)
		return sendErr
	}

	return nil
}
