package instrument

import (
	"encoding/json"
	"log/slog"
	"strings"
)

const maskedValue = "***"

// Masker replaces the values of configured keys with "***". Keys match case
// insensitively at any depth of maps, slices and JSON payloads.
// A nil Masker masks nothing.
type Masker struct {
	keys map[string]struct{}
}

func NewMasker(fields []string) *Masker {
	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return &Masker{keys: keys}
}

func (m *Masker) Sensitive(key string) bool {
	if m == nil || len(m.keys) == 0 {
		return false
	}
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Value returns a masked copy of v. Strings and byte slices holding a JSON
// object or array come back as masked JSON strings; anything else is returned
// untouched.
func (m *Masker) Value(v any) any {
	if m == nil || len(m.keys) == 0 {
		return v
	}

	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if m.Sensitive(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.Value(val)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if m.Sensitive(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = val
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = m.Value(val)
		}
		return out
	case string:
		if masked, ok := m.json([]byte(t)); ok {
			return masked
		}
	case []byte:
		if masked, ok := m.json(t); ok {
			return masked
		}
	}

	return v
}

// Attr masks a log attribute, descending into groups.
func (m *Masker) Attr(a slog.Attr) slog.Attr {
	if m.Sensitive(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = m.Attr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	case slog.KindString:
		if masked, ok := m.json([]byte(a.Value.String())); ok {
			return slog.String(a.Key, masked)
		}
	case slog.KindAny:
		if a.Value.Any() != nil {
			return slog.Any(a.Key, m.Value(a.Value.Any()))
		}
	}

	return a
}

func (m *Masker) json(payload []byte) (string, bool) {
	if m == nil || len(m.keys) == 0 || len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", false
	}

	out, err := json.Marshal(m.Value(decoded))
	if err != nil {
		return "", false
	}

	return string(out), true
}
