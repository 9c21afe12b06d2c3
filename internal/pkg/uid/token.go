package uid

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenBytes = 32

// RandomToken generates 32 random bytes encoded as unpadded base64url (43 chars).
type RandomToken struct{}

func NewRandomToken() *RandomToken {
	return &RandomToken{}
}

// Generate returns a new token. crypto/rand.Read never fails on supported platforms.
func (RandomToken) Generate() string {
	var b [tokenBytes]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
