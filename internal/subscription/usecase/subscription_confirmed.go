package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/newsletter/internal/pkg/idempotency"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

const welcomeSubject = "You're subscribed"

type ConsumeSubscriptionConfirmedInput struct {
	SubscriptionID string
	Email          string
	Name           string
}

// ConsumeSubscriptionConfirmed sends the welcome email once per subscription.
// A send failure is returned so the broker can redeliver.
func (s *Usecase) ConsumeSubscriptionConfirmed(ctx context.Context, in ConsumeSubscriptionConfirmedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeSubscriptionConfirmed")
	defer span.End()

	sub := &entity.Subscription{
		ID:     in.SubscriptionID,
		Email:  in.Email,
		Name:   in.Name,
		Status: entity.SubscriptionStatusConfirmed,
	}

	err := s.idemp.Exec(ctx, "welcome:"+in.SubscriptionID, func(ctx context.Context) error {
		return s.deliver(ctx, sub, entity.DeliveryKindWelcome, entity.EmailTemplateWelcome, welcomeSubject, entity.EmailData{
			Name: in.Name,
		})
	},
		idempotency.WithLockDuration(s.cfg.GetSecond("modules.subscription.idempotency_lock_seconds")),
		idempotency.WithStateTTL(s.cfg.GetHour("modules.subscription.token_ttl_hours")),
		idempotency.WithReleaseOnError(),
	)
	if errors.Is(err, idempotency.ErrAlreadyCompleted) {
		return nil
	}

	return err
}
