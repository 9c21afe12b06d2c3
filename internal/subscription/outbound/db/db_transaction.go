package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/newsletter/internal/pkg/sqlc"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

// CreateSubscription inserts the subscription and its first token in one
// transaction.
func (s *DB) CreateSubscription(ctx context.Context, sub entity.Subscription, token entity.SubscriptionToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSubscription")
	defer func() { s.endSpan(span, err) }()

	subID, err := parseID(sub.ID)
	if err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	wtx := s.query.WithTx(tx)

	if err := wtx.CreateSubscription(ctx, sqlc.CreateSubscriptionParams{
		ID:           subID,
		Email:        sub.Email,
		Name:         sub.Name,
		Status:       sub.Status.String(),
		SubscribedAt: sub.SubscribedAt,
	}); err != nil {
		return s.mapError(err)
	}

	if err := wtx.CreateSubscriptionToken(ctx, sqlc.CreateSubscriptionTokenParams{
		TokenHash:      token.TokenHash,
		SubscriptionID: subID,
		ExpiresAt:      token.ExpiresAt,
		CreatedAt:      token.CreatedAt,
	}); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
