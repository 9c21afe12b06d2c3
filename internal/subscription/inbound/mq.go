package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/goroutine"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/messaging"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/shared/event"
)

type consumer struct {
	name    string
	topic   string // destination the publisher writes to
	handler messaging.Handler
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	v validator.Validator,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, validator: v, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.subscription.consumer_names")

	for _, c := range consumers(mqHandler) {
		if !slices.Contains(enableConsumerNames, c.name) {
			continue
		}

		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name)
			return messenger.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.Group(c.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(10),
				messaging.WithMaxInFlight(10),
			)
		})
	}
}

func consumers(h *MQHandler) []consumer {
	return []consumer{
		{
			name:    event.SubscriptionConfirmedConsumerWelcome,
			topic:   event.SubscriptionConfirmedDestination,
			handler: h.SubscriptionConfirmedWelcome,
		},
	}
}
