// Package goerror holds the error shape the HTTP layer renders: a message safe
// to show to clients, a code that picks the status and optional field reasons.
package goerror

import (
	"errors"
	"net/http"
)

// Sentinels returned by repositories.
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Code selects the HTTP status of an Error.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
)

var statusByCode = map[Code]int{
	CodeInvalidFormat:  http.StatusBadRequest,
	CodeInvalidInput:   http.StatusUnprocessableEntity,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeTooManyRequest: http.StatusTooManyRequests,
	CodeUnauthorized:   http.StatusUnauthorized,
	CodeForbidden:      http.StatusForbidden,
	CodeTimeout:        http.StatusRequestTimeout,
}

// Error pairs a client-facing message with the cause that produced it.
// Error() reports the cause when there is one so logs keep the detail.
type Error struct {
	cause  error
	msg    string
	code   Code
	fields map[string]string
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Msg is the message shown to clients.
func (e *Error) Msg() string { return e.msg }

func (e *Error) Code() Code { return e.code }

// Fields maps a field name to its reasons, for validation errors.
func (e *Error) Fields() map[string]string { return e.fields }

// StatusCode maps Code to an HTTP status; unknown codes are 500.
func (e *Error) StatusCode() int {
	if status, ok := statusByCode[e.code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{cause: err, msg: "Internal server error", code: CodeInternal}
}

// NewBusiness reports a rule the request broke; msg is shown as is.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, code: code}
}

// NewInvalidInput wraps a validation failure. Without err, kv is read as
// field/reason pairs; an odd kv is treated as a malformed request.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return &Error{cause: err, msg: "Validation error", code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat reports a body that could not be read. The first msg, if
// any, replaces the default message.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, code: CodeInvalidFormat}
}

// NewUnprocessable is a 422 whose message is shown as is. Fields are copied
// from err when it exposes them.
func NewUnprocessable(msg string, err error) error {
	e := &Error{cause: err, msg: msg, code: CodeInvalidInput}

	var withFields interface{ Fields() map[string]string }
	if errors.As(err, &withFields) {
		e.fields = withFields.Fields()
	}

	return e
}
