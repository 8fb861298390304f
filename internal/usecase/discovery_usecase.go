package usecase

import (
	"context"
	"strings"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/logger"
	"farmily/pkg/utils"
)

const (
	SuggestedUsers    = 5
	remoteSearchMin   = 3
	remoteSearchLimit = 20
)

type DiscoveryUseCase struct {
	userRepo     repository.UserRepository
	usernameRepo repository.UsernameRepository
}

func NewDiscoveryUseCase(userRepo repository.UserRepository, usernameRepo repository.UsernameRepository) *DiscoveryUseCase {
	return &DiscoveryUseCase{
		userRepo:     userRepo,
		usernameRepo: usernameRepo,
	}
}

type UserPage struct {
	Users      []*entity.User
	NextCursor string
	HasMore    bool
}

// page loads one page of users, leaving out the caller, with usernames
// filled from the lookup collection.
func (uc *DiscoveryUseCase) page(ctx context.Context, uid, after string, limit int) (*UserPage, error) {
	if limit <= 0 {
		limit = utils.DefaultPageSize
	}
	users, err := uc.userRepo.List(ctx, after, limit)
	if err != nil {
		return nil, err
	}

	page := &UserPage{Users: []*entity.User{}, HasMore: len(users) >= limit}
	if len(users) > 0 {
		page.NextCursor = users[len(users)-1].UID
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UID)
	}
	names, err := uc.usernameRepo.GetMany(ctx, ids)
	if err != nil {
		logger.Warn("Failed to backfill usernames: %v", err)
	}

	for _, u := range users {
		if u.UID == uid {
			continue
		}
		if name, ok := names[u.UID]; ok {
			u.Username = name
		}
		page.Users = append(page.Users, publicProfile(u))
	}
	return page, nil
}

func publicProfile(u *entity.User) *entity.User {
	u.RecentlyViewed = nil
	u.Settings = entity.UserSettings{}
	return u
}

func (uc *DiscoveryUseCase) ListUsers(ctx context.Context, uid string, params utils.CursorParams) (*UserPage, error) {
	return uc.page(ctx, uid, params.After, params.Limit)
}

func matchesUser(u *entity.User, q string) bool {
	return strings.Contains(strings.ToLower(u.Username), q) ||
		strings.Contains(strings.ToLower(u.DisplayName), q)
}

// Search filters the current page and, for longer queries, a wider page
// from the start of the collection.
func (uc *DiscoveryUseCase) Search(ctx context.Context, uid, query string, params utils.CursorParams) ([]*entity.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	page, err := uc.page(ctx, uid, params.After, params.Limit)
	if err != nil {
		return nil, err
	}
	if q == "" {
		return page.Users, nil
	}

	seen := map[string]bool{}
	results := []*entity.User{}
	add := func(users []*entity.User) {
		for _, u := range users {
			if seen[u.UID] || !matchesUser(u, q) {
				continue
			}
			seen[u.UID] = true
			results = append(results, u)
		}
	}
	add(page.Users)

	if len(q) >= remoteSearchMin {
		remote, err := uc.page(ctx, uid, "", remoteSearchLimit)
		if err != nil {
			logger.Warn("Remote user search failed: %v", err)
		} else {
			add(remote.Users)
		}
	}
	return results, nil
}

func (uc *DiscoveryUseCase) RecordView(ctx context.Context, uid, viewedID string) ([]string, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if viewedID == "" || viewedID == uid {
		return user.RecentlyViewed, nil
	}

	recent := entity.PushRecent(user.RecentlyViewed, viewedID, entity.MaxRecentlyViewed)
	if err := uc.userRepo.SetRecentlyViewed(ctx, uid, recent); err != nil {
		return nil, err
	}
	return recent, nil
}

func (uc *DiscoveryUseCase) RecentlyViewed(ctx context.Context, uid string) ([]*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	users, err := uc.userRepo.GetByIDs(ctx, user.RecentlyViewed)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byID[u.UID] = u
	}
	out := make([]*entity.User, 0, len(user.RecentlyViewed))
	for _, id := range user.RecentlyViewed {
		if u, ok := byID[id]; ok {
			out = append(out, publicProfile(u))
		}
	}
	return out, nil
}

func (uc *DiscoveryUseCase) Suggested(ctx context.Context, uid string) ([]*entity.User, error) {
	page, err := uc.page(ctx, uid, "", SuggestedUsers+1)
	if err != nil {
		return nil, err
	}
	return utils.PageSlice(page.Users, 1, SuggestedUsers), nil
}
