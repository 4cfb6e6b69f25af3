package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"microblog-backend/internal/domains/user"
)

type authService struct {
	users user.Repository
}

func NewAuthService(users user.Repository) user.Service {
	return &authService{users: users}
}

func (s *authService) Signup(ctx context.Context, f *user.SignupForm) (*user.User, user.FieldErrors, error) {
	if fe := f.Validate(); fe != nil {
		return nil, fe, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, f.Username, string(hash))
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, user.FieldErrors{"username": "username is already taken"}, nil
		}
		return nil, nil, err
	}

	return created, nil, nil
}

func (s *authService) Login(ctx context.Context, f *user.LoginForm) (*user.User, error) {
	u, err := s.users.GetByUsername(ctx, f.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Same answer as a wrong password, no account probing
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(f.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return u, nil
}
