// Package validator checks structs tagged with `validate:"..."`.
package validator

type Validator interface {
	Validate(data any) error
}
