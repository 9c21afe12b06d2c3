package entity

import (
	"strings"
)

// Kind identifies which domain rule a value violated.
type Kind int

const (
	KindUnknown Kind = iota
	KindTooShort
	KindTooLong
	KindBlankContent
	KindForbiddenCharacter
	KindInvalidFormat
)

func (k Kind) String() string {
	switch k {
	case KindTooShort:
		return "TooShort"
	case KindTooLong:
		return "TooLong"
	case KindBlankContent:
		return "BlankContent"
	case KindForbiddenCharacter:
		return "ForbiddenCharacter"
	case KindInvalidFormat:
		return "InvalidFormat"
	default:
		return "Unknown"
	}
}

// FieldError is a single violated rule on a single field.
type FieldError struct {
	Field  string
	Kind   Kind
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationErrors is the ordered list of every rule a value violated.
type ValidationErrors []*FieldError

// Error joins every reason with a newline.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation error"
	}

	reasons := make([]string, 0, len(ve))
	for _, fe := range ve {
		reasons = append(reasons, fe.Error())
	}

	return strings.Join(reasons, "\n")
}

// Fields groups reasons by field name. Multiple reasons on the same field are
// joined with "; ".
func (ve ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		if prev, ok := out[fe.Field]; ok {
			out[fe.Field] = prev + "; " + fe.Reason
			continue
		}
		out[fe.Field] = fe.Reason
	}

	return out
}

// Kinds returns the violated kinds in order.
func (ve ValidationErrors) Kinds() []Kind {
	out := make([]Kind, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fe.Kind)
	}

	return out
}

// Has reports whether any failure matches field and kind.
func (ve ValidationErrors) Has(field string, kind Kind) bool {
	for _, fe := range ve {
		if fe.Field == field && fe.Kind == kind {
			return true
		}
	}

	return false
}

func (ve ValidationErrors) orNil() error {
	if len(ve) == 0 {
		return nil
	}

	return ve
}
