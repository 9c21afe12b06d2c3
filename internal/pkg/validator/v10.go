package validator

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

// reToken matches the unpadded base64url tokens put in confirmation links.
var reToken = regexp.MustCompile(`^[A-Za-z0-9_-]{16,128}$`)

// V10ValidationError maps a snake_case field name to its English message.
type V10ValidationError map[string]string

func (e V10ValidationError) Error() string {
	b, _ := json.Marshal(map[string]string(e))
	return "validation error: " + string(b)
}

func (e V10ValidationError) Values() map[string]string { return e }

type V10Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewV10Validator registers English messages and the "token" rule.
func NewV10Validator() (*V10Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	if err := v.RegisterValidation("token", func(fl validator.FieldLevel) bool {
		return reToken.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	err := v.RegisterTranslation("token", trans,
		func(t ut.Translator) error { return t.Add("token", "{0} is not a valid token", false) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T("token", fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		return nil, err
	}

	return &V10Validator{validate: v, trans: trans}, nil
}

func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[lo.SnakeCase(fe.Field())] = fe.Translate(v.trans)
	}
	return out
}
