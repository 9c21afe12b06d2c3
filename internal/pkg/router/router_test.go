package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
)

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

type okResponse struct {
	ID string `json:"id"`
}

func (okResponse) Message() string { return "done" }

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
app:
  maintenance:
    endpoints: /maintained
instrument:
  log_mask_fields: [email, subscription_token]
`))
	require.NoError(t, err)

	r := NewRouter(Config{
		Config:     cfg,
		UUID:       fixedUUID("01927f6e-0000-7000-8000-000000000001"),
		Instrument: instrument.NewNoop(),
	})

	r.GET("/ok", func(*Request) (any, error) { return okResponse{ID: "1"}, nil })
	r.GET("/cid", func(req *Request) (any, error) {
		return okResponse{ID: instrument.GetCorrelationID(req.Context())}, nil
	})
	r.GET("/conflict", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("already exists", goerror.CodeConflict)
	})
	r.GET("/plain-error", func(*Request) (any, error) { return nil, errors.New("db down") })
	r.GET("/panic", func(*Request) (any, error) { panic("boom") })
	r.GET("/maintained", func(*Request) (any, error) { return okResponse{}, nil })
	r.POST("/form", func(req *Request) (any, error) {
		if err := req.ParseForm(); err != nil {
			return nil, err
		}
		return okResponse{ID: req.PostForm.Get("name") + "|" + req.PostForm.Get("email")}, nil
	})

	return r
}

func serve(r http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Success(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/ok", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"done","data":{"id":"1"}}`, rec.Body.String())
	assert.Equal(t, "01927f6e-0000-7000-8000-000000000001", rec.Header().Get(HeaderCorrelationID))
}

func TestRouter_CorrelationID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "generated", want: "01927f6e-0000-7000-8000-000000000001"},
		{name: "from correlation header", headers: map[string]string{HeaderCorrelationID: "abc"}, want: "abc"},
		{name: "from request id header", headers: map[string]string{HeaderRequestID: " req-1 "}, want: "req-1"},
		{
			name:    "correlation header wins",
			headers: map[string]string{HeaderCorrelationID: "abc", HeaderRequestID: "req-1"},
			want:    "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestRouter(t), http.MethodGet, "/cid", tt.headers)

			var body struct {
				Data okResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Data.ID)
			assert.Equal(t, tt.want, rec.Header().Get(HeaderCorrelationID))
		})
	}
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		method   string
		wantCode int
		wantBody string
	}{
		{
			name:     "business error",
			target:   "/conflict",
			wantCode: http.StatusConflict,
			wantBody: `{"message":"already exists"}`,
		},
		{
			name:     "unclassified error",
			target:   "/plain-error",
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Internal server error"}`,
		},
		{
			name:     "panic",
			target:   "/panic",
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Internal server error"}`,
		},
		{
			name:     "maintenance",
			target:   "/maintained",
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"message":"service is under maintenance"}`,
		},
		{
			name:     "unknown endpoint",
			target:   "/nope",
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"endpoint not found"}`,
		},
		{
			name:     "method not allowed",
			target:   "/ok",
			method:   http.MethodPost,
			wantCode: http.StatusMethodNotAllowed,
			wantBody: `{"message":"method not allowed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}

			rec := serve(newTestRouter(t), method, tt.target, nil)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRouter_Health(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_RequestLogMasksQueryAndBody(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/form?subscription_token=Abc123&utm=mail",
		strings.NewReader("name=le%20guin&email=ursula_le_guin%40gmail.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"done","data":{"id":"le guin|ursula_le_guin@gmail.com"}}`, rec.Body.String())

	logs := buf.String()
	assert.NotContains(t, logs, "Abc123")
	assert.NotContains(t, logs, "ursula_le_guin")
	assert.NotContains(t, logs, "subscription_token=")
	assert.Contains(t, logs, `"subscription_token":"***"`)
	assert.Contains(t, logs, `"email":"***"`)
	assert.Contains(t, logs, `"utm":"mail"`)
	assert.Contains(t, logs, `"name":"le guin"`)
	assert.Contains(t, logs, `"route":"/form"`)
}

func TestLoggableBody(t *testing.T) {
	masker := instrument.NewMasker([]string{"email"})

	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        any
	}{
		{
			name:        "form body",
			contentType: "application/x-www-form-urlencoded; charset=utf-8",
			body:        []byte("name=le%20guin&email=ursula_le_guin%40gmail.com"),
			want:        map[string]any{"name": "le guin", "email": "***"},
		},
		{
			name:        "json body",
			contentType: "application/json",
			body:        []byte(`{"email":"a@b.co","tags":[{"email":"c@d.co"}]}`),
			want: map[string]any{
				"email": "***",
				"tags":  []any{map[string]any{"email": "***"}},
			},
		},
		{name: "text body", contentType: "text/plain", body: []byte("hello"), want: "hello"},
		{name: "empty body", contentType: "text/plain", want: nil},
		{name: "binary body", contentType: "application/octet-stream", body: []byte{0xff, 0xfe}, want: "<binary 2 bytes>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loggableBody(tt.contentType, tt.body, masker))
		})
	}

	t.Run("long text is truncated", func(t *testing.T) {
		got := loggableBody("text/plain", []byte(strings.Repeat("a", maxLoggedBodyBytes+1)), masker)
		assert.True(t, strings.HasSuffix(got.(string), "...(truncated)"))
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "true client ip", headers: map[string]string{"True-Client-IP": "203.0.113.7"}, want: "203.0.113.7"},
		{name: "forwarded for first hop", headers: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, want: "198.51.100.1"},
		{name: "invalid header falls through", headers: map[string]string{"X-Real-IP": "nope", "X-Forwarded-For": "198.51.100.2"}, want: "198.51.100.2"},
		{name: "no headers", want: "192.0.2.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := clientIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { got = r.RemoteAddr }))

			h.ServeHTTP(httptest.NewRecorder(), func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				for k, v := range tt.headers {
					req.Header.Set(k, v)
				}
				return req
			}())

			assert.Equal(t, tt.want, got)
		})
	}
}
