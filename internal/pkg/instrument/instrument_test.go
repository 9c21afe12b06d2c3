package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "newsletter", NewMasker([]string{"email", " Name "}))

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.With("email", "a@b.co").InfoContext(ctx, "subscribe",
		"name", "le guin",
		"body", `{"email":"c@d.co","city":"x"}`,
		slog.Group("req", "email", "e@f.co", "path", "/subscriptions"),
	)
	logger.Info("no context")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "subscribe", first["msg"])
	assert.Equal(t, "INFO", first["severity"])
	assert.Contains(t, first, "ts")
	assert.Equal(t, "***", first["email"])
	assert.Equal(t, "***", first["name"])
	assert.JSONEq(t, `{"email":"***","city":"x"}`, first["body"].(string))
	assert.Equal(t, map[string]any{"email": "***", "path": "/subscriptions"}, first["req"])
	assert.Equal(t, "cid-1", first["_cID"])
	assert.Equal(t, "newsletter", first["service"])
	assert.True(t, strings.HasPrefix(first["file"].(string), "internal/pkg/instrument/"))

	assert.NotContains(t, lines[1], "_cID")
	assert.Equal(t, "newsletter", lines[1]["service"])
	assert.NotContains(t, buf.String(), "a@b.co")
	assert.NotContains(t, buf.String(), "le guin")
}

func TestNewLogger_ExtraSink(t *testing.T) {
	var stdout, extra bytes.Buffer
	sink := slog.NewJSONHandler(&extra, nil)

	NewLogger(&stdout, "newsletter", NewMasker([]string{"email"}), sink).Warn("sent", "email", "a@b.co")

	assert.Contains(t, stdout.String(), `"email":"***"`)
	assert.Contains(t, extra.String(), `"email":"***"`)
	assert.NotContains(t, extra.String(), "a@b.co")
}

func TestMasker_Value(t *testing.T) {
	m := NewMasker([]string{"email"})

	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "nested map",
			in:   map[string]any{"Email": "a@b.co", "tags": []any{map[string]any{"email": "c@d.co"}}},
			want: map[string]any{"Email": "***", "tags": []any{map[string]any{"email": "***"}}},
		},
		{
			name: "string map",
			in:   map[string]string{"email": "a@b.co", "name": "x"},
			want: map[string]any{"email": "***", "name": "x"},
		},
		{name: "json bytes", in: []byte(`[{"email":"a"}]`), want: `[{"email":"***"}]`},
		{name: "plain string", in: "a@b.co", want: "a@b.co"},
		{name: "broken json", in: "{nope", want: "{nope"},
		{name: "number", in: 42, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Value(tt.in))
		})
	}
}

func TestMasker_Empty(t *testing.T) {
	var nilMasker *Masker
	in := map[string]any{"email": "a@b.co"}

	assert.Equal(t, in, nilMasker.Value(in))
	assert.Equal(t, in, NewMasker([]string{" ", ""}).Value(in))
	assert.False(t, nilMasker.Sensitive("email"))
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, 0.0, sampleRatio(-1))
	assert.Equal(t, 0.25, sampleRatio(0.25))
	assert.Equal(t, 1.0, sampleRatio(3))
}

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(context.Background(), &Config{ServiceName: "newsletter"})
	require.NoError(t, err)
	assert.NoError(t, ins.Shutdown(context.Background()))
	assert.NotSame(t, prev, slog.Default())
}

func TestCorrelationID(t *testing.T) {
	assert.Equal(t, "[invalid_chain_id]", GetCorrelationID(context.Background()))
	assert.Equal(t, "[invalid_chain_id]", GetCorrelationID(SetCorrelationID(context.Background(), "")))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}
