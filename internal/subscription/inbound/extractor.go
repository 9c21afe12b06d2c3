package inbound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

const formMediaType = "application/x-www-form-urlencoded"

var formFields = []string{"name", "email"}

type RejectionKind int

const (
	// RejectionDecode means the body is not a form carrying both fields.
	RejectionDecode RejectionKind = iota + 1
	// RejectionValidation means the form decoded but broke a domain rule.
	RejectionValidation
)

func (k RejectionKind) String() string {
	switch k {
	case RejectionDecode:
		return "decode"
	case RejectionValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Rejection is why ExtractNewSubscriber refused a request. Its Error is the
// message shown to the client.
type Rejection struct {
	Kind RejectionKind
	Err  error
}

func (r *Rejection) Error() string {
	if r.Kind == RejectionValidation {
		msg := "Input validation error: [" + r.Err.Error() + "]"
		return strings.ReplaceAll(msg, "\n", ", ")
	}

	return "Failed to decode form body: " + r.Err.Error()
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Fields returns the per-field reasons of a validation rejection.
func (r *Rejection) Fields() map[string]string {
	var verrs entity.ValidationErrors
	if errors.As(r.Err, &verrs) {
		return verrs.Fields()
	}

	return nil
}

// ExtractNewSubscriber decodes a urlencoded form and validates it. Any failure
// is a *Rejection.
func ExtractNewSubscriber(ctx context.Context, body []byte, contentType string) (entity.NewSubscriber, error) {
	form, err := decodeForm(body, contentType)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode subscription form",
			"content_type", contentType,
			"reasons", []string{err.Error()},
		)
		return entity.NewSubscriber{}, &Rejection{Kind: RejectionDecode, Err: err}
	}

	name, email := form.Get("name"), form.Get("email")

	ns, err := entity.ParseNewSubscriber(name, email)
	if err != nil {
		var reasons []string
		var verrs entity.ValidationErrors
		if errors.As(err, &verrs) {
			reasons = lo.Map(verrs, func(fe *entity.FieldError, _ int) string { return fe.Error() })
		}

		slog.ErrorContext(ctx, "failed to validate subscription form",
			"name", name,
			"email", email,
			"content_type", contentType,
			"reasons", reasons,
		)
		return entity.NewSubscriber{}, &Rejection{Kind: RejectionValidation, Err: err}
	}

	return ns, nil
}

func decodeForm(body []byte, contentType string) (url.Values, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("invalid content type %q: %w", contentType, err)
	}
	if mediaType != formMediaType {
		return nil, fmt.Errorf("expected content type %q, got %q", formMediaType, mediaType)
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}

	missing := lo.Reject(formFields, func(f string, _ int) bool { return form.Has(f) })
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing field %s", strings.Join(lo.Map(missing, func(f string, _ int) string {
			return "`" + f + "`"
		}), ", "))
	}

	return form, nil
}
