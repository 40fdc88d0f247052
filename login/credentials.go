package login

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/samber/oops"
)

// MinPasswordLength is the shortest password the form accepts.
const MinPasswordLength = 6

// Field names an input of the login form.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Credentials is the payload sent to the authentication endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the form constraints: both fields required, a well-formed
// email, and a password of at least MinPasswordLength characters.
func (c Credentials) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Password, validation.Required, validation.RuneLength(MinPasswordLength, 0)),
	)
	if err != nil {
		return oops.Code("LOGIN_VALIDATION_FAILED").Wrap(err)
	}
	return nil
}

// FieldErrors flattens a validation error into a message per form field.
// It returns nil when err carries no field errors.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}
	return out
}
