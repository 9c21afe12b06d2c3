package db

import "context"

// ConfirmSubscription moves a pending subscription to confirmed. It reports
// false when the subscription was not pending (already confirmed or gone).
func (s *DB) ConfirmSubscription(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConfirmSubscription")
	defer func() { s.endSpan(span, err) }()

	subID, err := parseID(id)
	if err != nil {
		return false, err
	}

	rows, err := s.query.ConfirmSubscription(ctx, subID)
	if err != nil {
		return false, s.mapError(err)
	}

	return rows > 0, nil
}
