package messaging

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/atomic"
)

// delivery is the Message every driver hands to a Handler. Ack and Nack are
// driver callbacks; only the first response reaches the broker.
type delivery struct {
	id        string
	topic     string
	body      []byte
	headers   map[string]string
	timestamp time.Time

	ack  func(ctx context.Context) error
	nack func(ctx context.Context) error

	responded atomic.Bool
}

func (d *delivery) Body() []byte               { return d.body }
func (d *delivery) Headers() map[string]string { return d.headers }
func (d *delivery) ID() string                 { return d.id }
func (d *delivery) Topic() string              { return d.topic }
func (d *delivery) Timestamp() time.Time       { return d.timestamp }

func (d *delivery) hasResponded() bool {
	return d.responded.Load()
}

func (d *delivery) Ack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) || d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}

func (d *delivery) Nack(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) || d.nack == nil {
		return nil
	}
	return d.nack(ctx)
}

// dispatch runs handler with panic recovery and, when autoAck is set,
// responds for the handler based on its error. Only a failure to respond is
// returned; handler errors are logged.
func dispatch(ctx context.Context, kind string, d *delivery, handler Handler, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, func() error {
		return handler(ctx, d)
	})
	if herr != nil {
		slog.WarnContext(ctx, "messaging handler failed", "kind", kind, "topic", d.topic, "message_id", d.id, "error", herr)
	}

	if d.hasResponded() || !autoAck {
		return nil
	}

	if herr == nil {
		return d.Ack(ctx)
	}
	return d.Nack(ctx)
}
