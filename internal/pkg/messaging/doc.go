// Package messaging provides a broker-agnostic API for publishing and
// consuming domain events.
//
// Use cases publish through Publisher and inbound adapters consume through
// Consumer, so the broker (NATS, Kafka, NSQ or Google Pub/Sub) is chosen by
// configuration alone. Every driver hands the handler the same Message type.
package messaging
