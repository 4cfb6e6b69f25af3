package user

import "context"

// Service is the account business logic contract.
type Service interface {
	// Signup registers a new account. Field-level problems (taken
	// username) come back as FieldErrors, infrastructure problems as
	// the error.
	Signup(ctx context.Context, f *SignupForm) (*User, FieldErrors, error)

	// Login verifies credentials; a bad username and a bad password
	// both surface as ErrInvalidCredentials.
	Login(ctx context.Context, f *LoginForm) (*User, error)
}
