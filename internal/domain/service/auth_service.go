package service

import (
	"context"
	"fmt"
)

// Provider error codes surfaced by the identity backend.
const (
	ProviderEmailExists        = "EMAIL_EXISTS"
	ProviderInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	ProviderEmailNotFound      = "EMAIL_NOT_FOUND"
	ProviderInvalidPassword    = "INVALID_PASSWORD"
	ProviderTooManyAttempts    = "TOO_MANY_ATTEMPTS_TRY_LATER"
	ProviderWeakPassword       = "WEAK_PASSWORD"
)

// ProviderError carries the identity backend's error code.
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth provider: %s: %v", e.Code, e.Err)
	}
	return "auth provider: " + e.Code
}

func (e *ProviderError) Unwrap() error { return e.Err }

type AuthSession struct {
	UID          string `json:"uid"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	RevokeSessions(ctx context.Context, uid string) error
}
