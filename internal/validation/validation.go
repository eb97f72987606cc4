// Package validation holds the schemas applied to credential forms before any
// lookup is attempted.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgUsernameRequired = "Nome é obrigatório"
	MsgPasswordTooShort = "Senha deve ter pelo menos 6 caracteres"
)

// Credentials is the login form. Field order is the order violations are reported in.
type Credentials struct {
	Username string `json:"usunom" validate:"required"`
	Password string `json:"ususen" validate:"min=6"`
}

// Error is a single schema violation carrying the message shown next to the form.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var messages = map[string]string{
	"usunom.required": MsgUsernameRequired,
	"usunom.min":      MsgUsernameRequired,
	"ususen.required": MsgPasswordTooShort,
	"ususen.min":      MsgPasswordTooShort,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks c and returns the first violated rule as *Error, or nil.
func (c Credentials) Validate() error {
	return Struct(c)
}

// Struct validates any tagged struct and reduces the result to its first violation.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	first := fieldErrs[0]
	return &Error{
		Field:   first.Field(),
		Tag:     first.Tag(),
		Message: messageFor(first),
	}
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s falhou na regra %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s falhou na regra %s", fe.Field(), fe.Tag())
}
