package usecase

import (
	"context"
	"regexp"
	"strings"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

type UserUseCase struct {
	userRepo     repository.UserRepository
	usernameRepo repository.UsernameRepository
}

func NewUserUseCase(userRepo repository.UserRepository, usernameRepo repository.UsernameRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		usernameRepo: usernameRepo,
	}
}

// resolveUsername prefers the lookup collection over the profile field.
func (uc *UserUseCase) resolveUsername(ctx context.Context, user *entity.User) {
	record, err := uc.usernameRepo.Get(ctx, user.UID)
	if err != nil {
		record, err = uc.usernameRepo.FindByUID(ctx, user.UID)
	}
	if err == nil && record.Username != "" {
		user.Username = record.Username
	}
}

func (uc *UserUseCase) GetMe(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	uc.resolveUsername(ctx, user)
	return user, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.resolveUsername(ctx, user)
	// Other users' view of a profile leaves out private fields.
	user.RecentlyViewed = nil
	user.Settings = entity.UserSettings{}
	return user, nil
}

type UpdateProfileInput struct {
	DisplayName *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	FarmName    *string
	Settings    *entity.UserSettings
}

func (in UpdateProfileInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(key string, v *string) {
		if v != nil {
			fields[key] = strings.TrimSpace(*v)
		}
	}
	set("displayName", in.DisplayName)
	set("firstName", in.FirstName)
	set("lastName", in.LastName)
	set("phoneNumber", in.PhoneNumber)
	set("farmName", in.FarmName)
	if in.Settings != nil {
		fields["settings"] = map[string]interface{}{
			"notifications": in.Settings.Notifications,
			"rememberMe":    in.Settings.RememberMe,
		}
	}
	return fields
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, in UpdateProfileInput) (*entity.User, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return nil, errors.BadRequest("No profile fields to update", nil)
	}
	if err := uc.userRepo.Update(ctx, uid, fields); err != nil {
		return nil, err
	}
	return uc.GetMe(ctx, uid)
}

func (uc *UserUseCase) UpdateUsername(ctx context.Context, uid, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return nil, errors.BadRequest("Username must be 3-30 characters of lowercase letters, numbers or underscores", nil)
	}
	if err := uc.usernameRepo.Change(ctx, uid, username); err != nil {
		return nil, err
	}
	logger.Info("User %s changed username to %s", uid, username)
	return uc.GetMe(ctx, uid)
}
