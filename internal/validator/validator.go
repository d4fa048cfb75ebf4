// Package validator
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"medai/internal/domain"
)

// emailShape is intentionally loose: anything of the form local@domain.tld.
// Full RFC address validation is the server's job.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// Login checks login form input. Checks run in a fixed order (blank fields,
// email shape, password length) and the first failure wins, so screens always
// show a single error at a time.
func Login(email, password string) error {
	if validate.Var(email, "required") != nil || validate.Var(password, "required") != nil {
		return domain.ErrEmptyField
	}
	if validate.Var(email, "email_shape") != nil {
		return domain.ErrInvalidEmailFormat
	}
	if validate.Var(password, "min=6") != nil {
		return domain.ErrPasswordTooShort
	}
	return nil
}

// Signup checks signup form input. Required-field checks run before format
// checks; emergency contact fields must be present in the payload but may be
// blank, which the server decides on.
func Signup(req domain.SignupRequest, confirmPassword string, agreeTerms bool) error {
	if validate.Var(req.FullName, "required") != nil ||
		validate.Var(req.Email, "required") != nil ||
		validate.Var(req.Password, "required") != nil ||
		validate.Var(confirmPassword, "required") != nil {
		return domain.ErrEmptyField
	}
	if validate.Var(req.Email, "email_shape") != nil {
		return domain.ErrInvalidEmailFormat
	}
	if validate.Var(req.Password, "min=6") != nil {
		return domain.ErrPasswordTooShort
	}
	if validate.VarWithValue(confirmPassword, req.Password, "eqcsfield") != nil {
		return domain.ErrPasswordMismatch
	}
	if !agreeTerms {
		return domain.ErrTermsNotAccepted
	}
	return nil
}
