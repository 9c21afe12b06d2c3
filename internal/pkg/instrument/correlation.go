package instrument

import "context"

type correlationIDKey struct{}

const invalidCorrelationID = "[invalid_chain_id]"

// SetCorrelationID returns a copy of ctx carrying cID.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID stored in ctx, or
// "[invalid_chain_id]" when none was set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return invalidCorrelationID
	}

	if cID, ok := ctx.Value(correlationIDKey{}).(string); ok && cID != "" {
		return cID
	}

	return invalidCorrelationID
}
