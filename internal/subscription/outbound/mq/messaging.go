package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/messaging"
	"github.com/shandysiswandi/newsletter/internal/shared/event"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishSubscriptionConfirmed(ctx context.Context, msg usecase.SubscriptionConfirmedEvent) error {
	ctx, span := m.ins.Tracer("subscription.outbound.mq").Start(ctx, "PublishSubscriptionConfirmed")
	defer span.End()

	body, err := json.Marshal(event.SubscriptionConfirmedMessage{
		SubscriptionID: msg.SubscriptionID,
		Email:          msg.Email,
		Name:           msg.Name,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, event.SubscriptionConfirmedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.SubscriptionID),
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
