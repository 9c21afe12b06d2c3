package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/messaging"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/shared/event"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc        ucConsumer
	uuid      uid.StringID
	validator validator.Validator
	ins       instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers map[string]string) context.Context {
	if cID := headers[keyOfCorrelationID]; cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) SubscriptionConfirmedWelcome(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("subscription.inbound.mq").Start(ctx, "SubscriptionConfirmedWelcome")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: subscription confirmed welcome", "msg_id", msg.ID())

	var payload event.SubscriptionConfirmedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of subscription confirmed", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.validator.Validate(payload); err != nil {
		slog.ErrorContext(ctx, "invalid message body of subscription confirmed", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeSubscriptionConfirmed(ctx, usecase.ConsumeSubscriptionConfirmedInput{
		SubscriptionID: payload.SubscriptionID,
		Email:          payload.Email,
		Name:           payload.Name,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume subscription confirmed", "subscription_id", payload.SubscriptionID, "error", err)
		return err
	}

	return nil
}
