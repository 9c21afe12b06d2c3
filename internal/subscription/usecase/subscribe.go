package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/idempotency"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

const confirmationSubject = "Welcome!"

// Subscribe registers a pending subscription, or refreshes the token of an
// existing pending one, and emails the confirmation link. A subscriber that
// already confirmed gets no email and no error.
func (s *Usecase) Subscribe(ctx context.Context, in entity.NewSubscriber) error {
	ctx, span := s.startSpan(ctx, "Subscribe")
	defer span.End()

	emailHash, err := s.hmac.Hash(in.Email.String())
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash subscriber email", "error", err)
		return goerror.NewServer(err)
	}

	err = s.idemp.Exec(ctx, "subscription:"+string(emailHash), s.subscribe(in),
		idempotency.WithLockDuration(s.subscribeLock()),
		idempotency.WithStateTTL(s.cfg.GetSecond("modules.subscription.idempotency_lock_seconds")),
		idempotency.WithReleaseOnError(),
	)

	var gerr *goerror.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return goerror.NewBusiness("Subscription request already in progress", goerror.CodeConflict)
	case errors.As(err, &gerr):
		return err
	default:
		slog.ErrorContext(ctx, "failed to guard subscription request", "error", err)
		return goerror.NewServer(err)
	}
}

func (s *Usecase) subscribe(in entity.NewSubscriber) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sub, err := s.repoDB.GetSubscriptionByEmail(ctx, in.Email.String())
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get subscription by email", "error", err)
			return goerror.NewServer(err)
		}

		if sub != nil && sub.Status.IsConfirmed() {
			slog.InfoContext(ctx, "subscription already confirmed", "subscription_id", sub.ID)
			return nil
		}

		now := s.clock.Now()
		token := s.token.Generate()
		tokenHash, err := s.hmac.Hash(token)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash subscription token", "error", err)
			return goerror.NewServer(err)
		}

		tok := entity.SubscriptionToken{
			TokenHash: string(tokenHash),
			ExpiresAt: now.Add(s.cfg.GetHour("modules.subscription.token_ttl_hours")),
			CreatedAt: now,
		}

		if sub == nil {
			sub = &entity.Subscription{
				ID:           s.uuid.Generate(),
				Email:        in.Email.String(),
				Name:         in.Name.String(),
				Status:       entity.SubscriptionStatusPending,
				SubscribedAt: now,
			}
			tok.SubscriptionID = sub.ID

			err := s.repoDB.CreateSubscription(ctx, *sub, tok)
			if errors.Is(err, goerror.ErrConflict) {
				slog.WarnContext(ctx, "subscription created concurrently", "subscription_id", sub.ID)
				return goerror.NewBusiness("Subscription request already in progress", goerror.CodeConflict)
			}
			if err != nil {
				slog.ErrorContext(ctx, "failed to repo create subscription", "subscription_id", sub.ID, "error", err)
				return goerror.NewServer(err)
			}
		} else {
			tok.SubscriptionID = sub.ID
			if err := s.repoDB.CreateToken(ctx, tok); err != nil {
				slog.ErrorContext(ctx, "failed to repo create token", "subscription_id", sub.ID, "error", err)
				return goerror.NewServer(err)
			}
		}

		if err := s.deliver(ctx, sub, entity.DeliveryKindConfirmation, entity.EmailTemplateConfirmation, confirmationSubject, entity.EmailData{
			Name:             sub.Name,
			ConfirmationLink: s.confirmationLink(token),
		}); err != nil {
			return goerror.NewServer(err)
		}

		return nil
	}
}

func (s *Usecase) confirmationLink(token string) string {
	base := strings.TrimRight(s.cfg.GetString("app.base_url"), "/")
	return base + "/subscriptions/confirm?subscription_token=" + url.QueryEscape(token)
}
