// Package uid generates identifiers: uuid v7 strings for rows exposed to
// clients, snowflake numbers for internal append-only logs and random
// url-safe tokens for links sent by email.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}
