// Package secret holds credentials that must never leak through logs,
// fmt verbs or JSON encoding.
//
// A String only gives up its value through Reveal, which should be called at
// the exact point the credential is used (building a header, dialing a DSN).
package secret

import (
	"fmt"
	"log/slog"
)

const redacted = "***"

// String wraps a sensitive string value.
//
// The zero value is an empty secret.
type String struct {
	value string
}

// New wraps value as a secret.
func New(value string) String {
	return String{value: value}
}

// Reveal returns the underlying value.
func (s String) Reveal() string {
	return s.value
}

// IsEmpty reports whether the secret holds no value.
func (s String) IsEmpty() bool {
	return s.value == ""
}

// String implements fmt.Stringer and always returns a redacted marker.
func (s String) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v stays redacted.
func (s String) GoString() string {
	return "secret.String(" + redacted + ")"
}

// Format implements fmt.Formatter so every verb (%s, %v, %q, %x, ...) is redacted.
func (s String) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		_, _ = fmt.Fprint(f, s.GoString())
		return
	}
	_, _ = fmt.Fprint(f, redacted)
}

// LogValue implements slog.LogValuer.
func (s String) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s String) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}
