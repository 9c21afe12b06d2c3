package entity

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	subscriberNameMinLength = 1
	subscriberNameMaxLength = 256

	// forbiddenNameCharacters must never contain ',' or '|', both are tag separators.
	forbiddenNameCharacters = `/()"<>\{}`
)

// reSubscriberEmail requires a non-empty local part, '@' and a dotted domain.
// Whitespace and control characters are rejected anywhere.
var reSubscriberEmail = regexp.MustCompile(`^[^\s@\p{Cc}]+@[^\s@.\p{Cc}]+(\.[^\s@.\p{Cc}]+)+$`)

type rule struct {
	tag    string
	kind   Kind
	reason string
}

var (
	subscriberNameRules = []rule{
		{
			tag:    "min=" + strconv.Itoa(subscriberNameMinLength),
			kind:   KindTooShort,
			reason: "must be at least " + strconv.Itoa(subscriberNameMinLength) + " character long",
		},
		{
			tag:    "max=" + strconv.Itoa(subscriberNameMaxLength),
			kind:   KindTooLong,
			reason: "must be at most " + strconv.Itoa(subscriberNameMaxLength) + " characters long",
		},
		{tag: "notblank", kind: KindBlankContent, reason: "must not be all whitespace"},
		{
			tag:    "excludesall=" + forbiddenNameCharacters,
			kind:   KindForbiddenCharacter,
			reason: `may not contain any of the following characters: /, (, ), ", <, >, \, {, }`,
		},
	}

	subscriberEmailRules = []rule{
		{tag: "subscriber_email", kind: KindInvalidFormat, reason: "must be a valid email address"},
	}
)

// validate is safe for concurrent use; rules are registered once at init.
var validate = newValidate()

//nolint:errcheck // tags are constant and registered once
func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterValidation("subscriber_email", func(fl validator.FieldLevel) bool {
		return reSubscriberEmail.MatchString(fl.Field().String())
	})

	return v
}

// check runs every rule independently so no failure hides another.
func check(field, value string, rules []rule) ValidationErrors {
	var out ValidationErrors
	for _, r := range rules {
		if err := validate.Var(value, r.tag); err != nil {
			out = append(out, &FieldError{Field: field, Kind: r.kind, Reason: r.reason})
		}
	}

	return out
}
