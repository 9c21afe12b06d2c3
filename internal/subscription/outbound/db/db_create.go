package db

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/pkg/sqlc"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

func (s *DB) CreateToken(ctx context.Context, in entity.SubscriptionToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateToken")
	defer func() { s.endSpan(span, err) }()

	subID, err := parseID(in.SubscriptionID)
	if err != nil {
		return err
	}

	err = s.mapError(s.query.CreateSubscriptionToken(ctx, sqlc.CreateSubscriptionTokenParams{
		TokenHash:      in.TokenHash,
		SubscriptionID: subID,
		ExpiresAt:      in.ExpiresAt,
		CreatedAt:      in.CreatedAt,
	}))
	return err
}

func (s *DB) CreateDelivery(ctx context.Context, in entity.Delivery) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDelivery")
	defer func() { s.endSpan(span, err) }()

	subID, err := parseID(in.SubscriptionID)
	if err != nil {
		return err
	}

	err = s.mapError(s.query.CreateSubscriptionEmailDelivery(ctx, sqlc.CreateSubscriptionEmailDeliveryParams{
		ID:             in.ID,
		SubscriptionID: subID,
		Kind:           string(in.Kind),
		Status:         string(in.Status),
		Error:          in.Error,
		CreatedAt:      in.CreatedAt,
	}))
	return err
}
