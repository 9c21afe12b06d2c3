package messaging

type consumeOptions struct {
	concurrency int
	autoAck     bool
	maxInFlight int

	// Broker-specific names for the consumer, all set by Group: the Kafka
	// consumer group, the NSQ channel, the NATS queue group and the Pub/Sub
	// subscription. With a subscription the Consume source is the topic.
	group        string
	channel      string
	queueGroup   string
	subscription string
}

type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	var co consumeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	return co
}

// WithConcurrency sets how many handler goroutines share one consumer.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithAutoAck acks on a nil handler error and nacks otherwise, unless the
// handler already settled the message.
func WithAutoAck(autoAck bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = autoAck }
}

// WithMaxInFlight caps unacknowledged messages on NSQ and Pub/Sub.
func WithMaxInFlight(n int) ConsumeOption {
	return func(o *consumeOptions) { o.maxInFlight = n }
}

// Group names the consumer on whichever broker is in use.
func Group(name string) ConsumeOption {
	return func(o *consumeOptions) {
		o.group = name
		o.channel = name
		o.queueGroup = name
		o.subscription = name
	}
}

func concurrencyOrDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
