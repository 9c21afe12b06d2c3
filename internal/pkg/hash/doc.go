// Package hash provides keyed hashing for values that must be looked up
// without being stored in clear, such as confirmation tokens and the
// idempotency key derived from a subscriber email.
package hash

// Hash produces and verifies keyed digests.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
