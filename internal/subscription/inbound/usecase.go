package inbound

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

type ucConsumer interface {
	ConsumeSubscriptionConfirmed(ctx context.Context, in usecase.ConsumeSubscriptionConfirmedInput) error
}

type uc interface {
	ucConsumer

	Subscribe(ctx context.Context, in entity.NewSubscriber) error
	Confirm(ctx context.Context, in usecase.ConfirmInput) error
}
