package db

import (
	"context"

	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

func (s *DB) GetSubscriptionByEmail(ctx context.Context, email string) (_ *entity.Subscription, err error) {
	ctx, span := s.startSpan(ctx, "GetSubscriptionByEmail")
	defer func() { s.endSpan(span, err) }()

	result, err := s.query.GetSubscriptionByEmail(ctx, email)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Subscription{
		ID:           result.ID.String(),
		Email:        result.Email,
		Name:         result.Name,
		Status:       entity.SubscriptionStatusFromString(result.Status),
		SubscribedAt: result.SubscribedAt,
	}, nil
}

func (s *DB) GetSubscriptionByToken(ctx context.Context, tokenHash string) (_ *entity.Subscription, _ *entity.SubscriptionToken, err error) {
	ctx, span := s.startSpan(ctx, "GetSubscriptionByToken")
	defer func() { s.endSpan(span, err) }()

	result, err := s.query.GetSubscriptionByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, nil, s.mapError(err)
	}

	sub := &entity.Subscription{
		ID:           result.ID.String(),
		Email:        result.Email,
		Name:         result.Name,
		Status:       entity.SubscriptionStatusFromString(result.Status),
		SubscribedAt: result.SubscribedAt,
	}
	token := &entity.SubscriptionToken{
		TokenHash:      tokenHash,
		SubscriptionID: sub.ID,
		ExpiresAt:      result.ExpiresAt,
	}

	return sub, token, nil
}
