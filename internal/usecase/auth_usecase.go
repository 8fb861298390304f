package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/internal/domain/service"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
)

const (
	MinPasswordLength    = 6
	usernameAttempts     = 5
	usernameSuffixLimit  = 1000
	randomUsernameDigits = 1000000
	reserveAttempts      = 3
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	usernameRepo repository.UsernameRepository
	auth         service.AuthProvider
	rand         func(n int) int
	now          func() time.Time
}

func NewAuthUseCase(userRepo repository.UserRepository, usernameRepo repository.UsernameRepository, auth service.AuthProvider) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		usernameRepo: usernameRepo,
		auth:         auth,
		rand:         rand.Intn,
		now:          time.Now,
	}
}

type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

type AuthResult struct {
	User    *entity.User         `json:"user"`
	Session *service.AuthSession `json:"session,omitempty"`
}

func (uc *AuthUseCase) randomUsername() string {
	return fmt.Sprintf("user%06d", uc.rand(randomUsernameDigits))
}

func usernameBase(firstName, lastName, email string) string {
	base := nonAlphanumeric.ReplaceAllString(strings.ToLower(firstName+lastName), "")
	if base != "" {
		return base
	}
	if at := strings.Index(email, "@"); at > 0 {
		base = nonAlphanumeric.ReplaceAllString(strings.ToLower(email[:at]), "")
	}
	return base
}

// GenerateUsername picks a free username derived from the user's name or
// email. When lookups fail a random name is used instead.
func (uc *AuthUseCase) GenerateUsername(ctx context.Context, firstName, lastName, email string) string {
	base := usernameBase(firstName, lastName, email)
	if base == "" {
		return uc.randomUsername()
	}

	taken, err := uc.usernameRepo.IsTaken(ctx, base)
	if err != nil {
		logger.Warn("Username check failed for %q: %v", base, err)
		return uc.randomUsername()
	}
	if !taken {
		return base
	}

	for i := 0; i < usernameAttempts; i++ {
		candidate := fmt.Sprintf("%s%d", base, uc.rand(usernameSuffixLimit))
		taken, err := uc.usernameRepo.IsTaken(ctx, candidate)
		if err != nil {
			break
		}
		if !taken {
			return candidate
		}
	}
	return uc.randomUsername()
}

// reserveUsername claims a generated username for uid. A conflict means a
// concurrent signup took the name after it was generated, so a new one is
// generated and claimed.
func (uc *AuthUseCase) reserveUsername(ctx context.Context, uid string, in SignupInput, now time.Time) (string, error) {
	var err error
	for i := 0; i < reserveAttempts; i++ {
		username := uc.GenerateUsername(ctx, in.FirstName, in.LastName, in.Email)
		err = uc.usernameRepo.Reserve(ctx, &entity.UsernameRecord{
			UID:       uid,
			Username:  username,
			CreatedAt: now,
		})
		if err == nil {
			return username, nil
		}
		if !errors.Is(err, "CONFLICT") {
			return "", err
		}
		logger.Warn("Username %q was claimed during signup of %s, retrying", username, uid)
	}
	return "", err
}

func (uc *AuthUseCase) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		return nil, errors.BadRequest("Passwords do not match", nil)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, errors.BadRequest("Password must be at least 6 characters long", nil)
	}
	if !in.AgreeToTerms {
		return nil, errors.BadRequest("You must agree to the Terms of Service and Privacy Policy", nil)
	}

	displayName := strings.TrimSpace(in.FirstName + " " + in.LastName)
	uid, err := uc.auth.CreateUser(ctx, in.Email, in.Password, displayName)
	if err != nil {
		var pe *service.ProviderError
		if stderrors.As(err, &pe) {
			switch pe.Code {
			case service.ProviderEmailExists:
				return nil, errors.Conflict("This email is already registered. Please use a different email or log in.")
			case service.ProviderWeakPassword:
				return nil, errors.BadRequest("Password must be at least 6 characters long", err)
			}
		}
		return nil, errors.Internal("Failed to create account", err)
	}

	now := uc.now()
	username, err := uc.reserveUsername(ctx, uid, in, now)
	if err != nil {
		uc.rollbackAccount(ctx, uid)
		return nil, err
	}

	user := &entity.User{
		UID:             uid,
		DisplayName:     displayName,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		PhoneNumber:     in.PhoneNumber,
		Username:        username,
		Role:            entity.RoleOwner,
		AuthProvider:    entity.AuthProviderEmail,
		ProfileComplete: true,
		AgreedToTerms:   true,
		Settings:        entity.UserSettings{Notifications: true, RememberMe: false},
		Farms:           []string{},
		CreatedAt:       now,
		LastLogin:       now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.rollbackAccount(ctx, uid)
		return nil, err
	}

	logger.Info("User %s signed up as %s", uid, username)
	return &AuthResult{User: user}, nil
}

func (uc *AuthUseCase) rollbackAccount(ctx context.Context, uid string) {
	if err := uc.auth.DeleteUser(ctx, uid); err != nil {
		logger.Error("Failed to remove auth user %s after signup error: %v", uid, err)
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string, rememberMe bool) (*AuthResult, error) {
	session, err := uc.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, loginError(err)
	}

	// Bookkeeping only; a failure here does not fail the login.
	if err := uc.userRepo.Update(ctx, session.UID, map[string]interface{}{
		"lastLogin": uc.now(),
		"settings":  map[string]interface{}{"rememberMe": rememberMe},
	}); err != nil {
		logger.Warn("Failed to update last login for %s: %v", session.UID, err)
	}

	user, err := uc.userRepo.GetByID(ctx, session.UID)
	if err != nil {
		logger.Warn("Profile for %s not found after login: %v", session.UID, err)
		user = &entity.User{UID: session.UID, Email: email}
	}
	return &AuthResult{User: user, Session: session}, nil
}

func loginError(err error) error {
	var pe *service.ProviderError
	if stderrors.As(err, &pe) {
		switch pe.Code {
		case service.ProviderInvalidCredentials, service.ProviderEmailNotFound, service.ProviderInvalidPassword:
			return errors.Unauthorized("Invalid email or password. Please try again.", err)
		case service.ProviderTooManyAttempts:
			return errors.TooManyRequests("Too many failed login attempts. Please try again later.", 0)
		}
	}
	return errors.Unauthorized("Failed to sign in. Please check your credentials.", err)
}

func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	if err := uc.auth.RevokeSessions(ctx, uid); err != nil {
		return errors.Internal("Failed to sign out", err)
	}
	return nil
}
