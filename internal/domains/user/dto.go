package user

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldErrors maps form field names to display messages.
type FieldErrors map[string]string

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SignupForm is the registration form submission.
type SignupForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f SignupForm) Validate() FieldErrors {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Username,
			validation.Required.Error("required field"),
			validation.Length(3, 150).Error("username must be 3-150 characters"),
			validation.Match(usernamePattern).Error("username may contain only letters, digits and underscores"),
		),
		validation.Field(&f.Password,
			validation.Required.Error("required field"),
			validation.Length(8, 128).Error("password must be at least 8 characters"),
		),
	)
	return toFieldErrors(err)
}

// LoginForm is the login form submission.
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() FieldErrors {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required.Error("required field")),
		validation.Field(&f.Password, validation.Required.Error("required field")),
	)
	return toFieldErrors(err)
}

func toFieldErrors(err error) FieldErrors {
	if err == nil {
		return nil
	}

	fe := FieldErrors{}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for field, fieldErr := range ve {
			fe[field] = fieldErr.Error()
		}
		return fe
	}

	fe["form"] = err.Error()
	return fe
}
