package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the selected broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source (topic/subject/subscription).
//
// Consume blocks until ctx is done or the broker connection fails.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// With auto-ack enabled a nil error acks the message and a non-nil error
// nacks it, unless the handler already responded itself.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte
	// Key is used by Kafka for partitioning; other drivers ignore it.
	Key []byte
	// Headers are carried as NATS/Kafka headers and Pub/Sub attributes.
	// NSQ has no header support and drops them.
	Headers map[string]string
}

// PublishResult carries what the broker reports about a publish.
type PublishResult struct {
	// MessageID is the broker-assigned message ID, when the broker assigns one.
	MessageID string
	// Topic is the destination the message was written to.
	Topic string
	// Timestamp is when the message was handed to the broker.
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	Body() []byte
	Headers() map[string]string
	// ID returns the broker message ID, or "" when the broker has none.
	ID() string
	Topic() string
	Timestamp() time.Time

	// Ack acknowledges successful processing (finish/commit/ack).
	Ack(ctx context.Context) error
	// Nack asks for redelivery when the broker supports it.
	Nack(ctx context.Context) error
}
