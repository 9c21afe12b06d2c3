package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
)

type ConfirmInput struct {
	SubscriptionToken string `validate:"required,token"`
}

// Confirm marks the subscription behind the token as confirmed and announces
// it. Confirming twice is a no-op.
func (s *Usecase) Confirm(ctx context.Context, in ConfirmInput) error {
	ctx, span := s.startSpan(ctx, "Confirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.SubscriptionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash subscription token", "error", err)
		return goerror.NewServer(err)
	}

	sub, tok, err := s.repoDB.GetSubscriptionByToken(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "subscription token not found")
		return goerror.NewBusiness("Invalid subscription token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get subscription by token", "error", err)
		return goerror.NewServer(err)
	}

	if tok.IsExpired(s.clock.Now()) {
		slog.WarnContext(ctx, "subscription token expired", "subscription_id", sub.ID, "expires_at", tok.ExpiresAt)
		return goerror.NewBusiness("Invalid subscription token", goerror.CodeUnauthorized)
	}

	if sub.Status.IsConfirmed() {
		return nil
	}

	updated, err := s.repoDB.ConfirmSubscription(ctx, sub.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo confirm subscription", "subscription_id", sub.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !updated {
		// lost the race against a concurrent confirm
		return nil
	}

	if err := s.repoMessaging.PublishSubscriptionConfirmed(ctx, SubscriptionConfirmedEvent{
		SubscriptionID: sub.ID,
		Email:          sub.Email,
		Name:           sub.Name,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish subscription confirmed", "subscription_id", sub.ID, "error", err)
	}

	return nil
}
