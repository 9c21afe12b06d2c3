package router

import (
	"io"
	"net/http"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
)

// maxBodyBytes bounds how much of a request body ReadBody accepts.
const maxBodyBytes = 64 << 10

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// ContentType returns the raw Content-Type header.
func (r *Request) ContentType() string {
	return r.Header.Get("Content-Type")
}

// ReadBody returns the raw request body, capped at 64KB.
func (r *Request) ReadBody() ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, goerror.NewInvalidFormat("Failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return nil, goerror.NewInvalidFormat("Request body too large")
	}

	return body, nil
}
