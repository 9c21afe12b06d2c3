// Package config reads service settings by dotted key, e.g. "database.host".
// Missing keys yield zero values.
package config

import (
	"io"
	"time"
)

type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetFloat64(key string) float64

	// GetSecond and GetHour read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetHour(key string) time.Duration

	// GetBinary decodes a base64 value; invalid input yields nil.
	GetBinary(key string) []byte

	// GetArray accepts a YAML list or a comma separated string. Elements are
	// trimmed and blanks dropped.
	GetArray(key string) []string
}
