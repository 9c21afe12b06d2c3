package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
)

func testMessage() Message {
	return Message{
		From:     "newsletter@example.com",
		To:       "ursula_le_guin@gmail.com",
		Subject:  "Welcome!",
		HTMLBody: "<p>Hi <b>there</b></p>",
		TextBody: "Hi there",
	}
}

func newTestSendGrid(t *testing.T, baseURL string, timeout time.Duration) *SendGrid {
	t.Helper()

	sg, err := NewSendGrid(SendGridConfig{
		BaseURL: baseURL,
		Token:   secret.New("sg-test-token"),
		Timeout: timeout,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sg.Close() })

	return sg
}

func TestNewSendGrid(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		sg, err := NewSendGrid(SendGridConfig{BaseURL: "https://api.sendgrid.com/"})

		require.NoError(t, err)
		assert.Equal(t, DefaultSendGridTimeout, sg.client.Timeout)
		assert.Equal(t, "https://api.sendgrid.com/v3/mail/send", sg.endpoint)
	})

	t.Run("invalid base url", func(t *testing.T) {
		for _, base := range []string{"", "   ", "not a url", "/relative"} {
			_, err := NewSendGrid(SendGridConfig{BaseURL: base})
			assert.ErrorIs(t, err, ErrBaseURLRequired, base)
		}
	})
}

func TestSendGrid_Send_RequestShape(t *testing.T) {
	var (
		mu       sync.Mutex
		gotReq   *http.Request
		gotBody  []byte
		requests int
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)

		mu.Lock()
		gotReq, gotBody = r, b
		requests++
		mu.Unlock()

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	// Arrange
	sg := newTestSendGrid(t, srv.URL, time.Second)

	// Act
	err := sg.Send(context.Background(), testMessage())

	// Assert
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, 1, requests)
	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "/v3/mail/send", gotReq.URL.Path)
	assert.Equal(t, "Bearer sg-test-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))
	assert.JSONEq(t, `{
		"personalizations": [{"to": [{"email": "ursula_le_guin@gmail.com"}]}],
		"from": "newsletter@example.com",
		"subject": "Welcome!",
		"content": [
			{"type": "text/html", "value": "<p>Hi <b>there</b></p>"},
			{"type": "text/plain", "value": "Hi there"}
		]
	}`, string(gotBody))
	assert.Contains(t, string(gotBody), "<p>Hi <b>there</b></p>", "html must not be escaped")

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gotBody, &keys))
	assert.Len(t, keys, 4)
}

func TestSendGrid_Send_Status(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus int
		retryable  bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "accepted", status: http.StatusAccepted},
		{name: "server error", status: http.StatusInternalServerError, wantStatus: 500, retryable: true},
		{name: "throttled", status: http.StatusTooManyRequests, wantStatus: 429, retryable: true},
		{name: "bad request", status: http.StatusBadRequest, wantStatus: 400},
		{name: "unauthorized", status: http.StatusUnauthorized, wantStatus: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errors":[{"message":"ignored"}]}`))
			}))
			defer srv.Close()

			sg := newTestSendGrid(t, srv.URL, time.Second)

			err := sg.Send(context.Background(), testMessage())

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				return
			}

			var rejected *RemoteRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, tt.wantStatus, rejected.Status)
			assert.Equal(t, tt.retryable, rejected.Retryable())
			assert.ErrorIs(t, err, ErrRemoteRejected)
			assert.NotErrorIs(t, err, ErrTransport)
		})
	}
}

func TestSendGrid_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Minute):
		case <-r.Context().Done():
		case <-release:
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	timeout := 200 * time.Millisecond
	sg := newTestSendGrid(t, srv.URL, timeout)

	start := time.Now()
	err := sg.Send(context.Background(), testMessage())
	elapsed := time.Since(start)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, transportErr.Timeout())
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrRemoteRejected)
	assert.Less(t, elapsed, timeout+2*time.Second)
}

func TestSendGrid_Send_ContextCanceled(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	sg := newTestSendGrid(t, srv.URL, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-arrived
		cancel()
	}()

	start := time.Now()
	err := sg.Send(ctx, testMessage())

	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSendGrid_Send_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	sg := newTestSendGrid(t, addr, time.Second)

	err := sg.Send(context.Background(), testMessage())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.False(t, transportErr.Timeout())
}

func TestSendGrid_Send_Concurrent(t *testing.T) {
	var (
		mu    sync.Mutex
		count int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sg := newTestSendGrid(t, srv.URL, time.Second)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- sg.Send(context.Background(), testMessage())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 20, count)
}
