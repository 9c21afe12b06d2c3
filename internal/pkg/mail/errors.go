package mail

import (
	"context"
	"errors"
	"net"
	"strconv"
)

var (
	// ErrRemoteRejected matches any *RemoteRejectedError.
	ErrRemoteRejected = errors.New("mail: provider rejected the request")
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("mail: transport failure")
	// ErrBaseURLRequired is returned when the provider base URL is empty or malformed.
	ErrBaseURLRequired = errors.New("mail: valid base url is required")
)

// RemoteRejectedError is returned when the provider answered with a status
// outside the 2xx range. The response body is not inspected.
type RemoteRejectedError struct {
	Status int
}

func (e *RemoteRejectedError) Error() string {
	return "mail: provider responded with status " + strconv.Itoa(e.Status)
}

func (e *RemoteRejectedError) Is(target error) bool {
	return target == ErrRemoteRejected
}

// Retryable reports whether the status is worth another attempt
// (server errors and throttling).
func (e *RemoteRejectedError) Retryable() bool {
	return e.Status >= 500 || e.Status == 429
}

// TransportError wraps a failure to reach the provider or read its response:
// dial, DNS, TLS, timeout or context cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "mail: transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Timeout reports whether the failure was the client timeout or a context deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
