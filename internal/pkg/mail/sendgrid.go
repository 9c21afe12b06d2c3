package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
)

// DefaultSendGridTimeout applies when SendGridConfig.Timeout is not positive.
const DefaultSendGridTimeout = 10 * time.Second

// SendGridConfig configures the SendGrid implementation.
type SendGridConfig struct {
	// BaseURL is the API root, e.g. https://api.sendgrid.com.
	BaseURL string
	// Token is the API key sent as a bearer token.
	Token secret.String
	// Timeout bounds a whole request, including reading the response.
	// Zero means 10s.
	Timeout time.Duration
}

// SendGrid is a Mail implementation backed by the SendGrid v3 HTTP API.
//
// It holds no per-call state and is safe for concurrent use.
type SendGrid struct {
	endpoint string
	token    secret.String
	client   *http.Client
}

// NewSendGrid constructs a SendGrid mail sender with one reusable HTTP client.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSendGridTimeout
	}

	return &SendGrid{
		endpoint: base + "/v3/mail/send",
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             string                    `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func newSendGridRequest(msg Message) sendGridRequest {
	return sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             msg.From,
		Subject:          msg.Subject,
		Content: []sendGridContent{
			{Type: "text/html", Value: msg.HTMLBody},
			{Type: "text/plain", Value: msg.TextBody},
		},
	}
}

// Send posts msg to {base}/v3/mail/send.
//
// A non-2xx status yields *RemoteRejectedError; any failure to complete the
// exchange (including ctx cancellation and the client timeout) yields
// *TransportError.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newSendGridRequest(msg)); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token.Reveal())
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	// drain so the connection goes back to the pool
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)); err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RemoteRejectedError{Status: resp.StatusCode}
	}

	return nil
}

// Close releases idle connections held by the client.
func (s *SendGrid) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
