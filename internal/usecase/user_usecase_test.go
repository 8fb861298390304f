package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmily/internal/domain/entity"
	"farmily/pkg/utils"
)

func TestGetMePrefersLookupUsername(t *testing.T) {
	users := newFakeUserRepo(&entity.User{UID: "u1", Username: "old"})
	names := newFakeUsernameRepo()
	names.records["u1"] = "fresh"

	me, err := NewUserUseCase(users, names).GetMe(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", me.Username)
}

func TestUpdateUsername(t *testing.T) {
	users := newFakeUserRepo(&entity.User{UID: "u1"}, &entity.User{UID: "u2"})
	names := newFakeUsernameRepo()
	names.records["u2"] = "taken_name"
	uc := NewUserUseCase(users, names)

	_, err := uc.UpdateUsername(context.Background(), "u1", "Bad Name")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = uc.UpdateUsername(context.Background(), "u1", "ab")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = uc.UpdateUsername(context.Background(), "u1", "taken_name")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	me, err := uc.UpdateUsername(context.Background(), "u1", "farmer_01")
	require.NoError(t, err)
	assert.Equal(t, "farmer_01", me.Username)
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserRepo(&entity.User{UID: "u1", DisplayName: "Old"})
	uc := NewUserUseCase(users, newFakeUsernameRepo())

	_, err := uc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	name := "  New Name "
	me, err := uc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", me.DisplayName)
}

func TestRecordView(t *testing.T) {
	users := newFakeUserRepo(&entity.User{UID: "me"})
	uc := NewDiscoveryUseCase(users, newFakeUsernameRepo())
	ctx := context.Background()

	recent, err := uc.RecordView(ctx, "me", "me")
	require.NoError(t, err)
	assert.Empty(t, recent)

	for _, id := range []string{"a", "b", "c", "a"} {
		recent, err = uc.RecordView(ctx, "me", id)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "c", "b"}, recent)

	for i := 0; i < 15; i++ {
		recent, err = uc.RecordView(ctx, "me", string(rune('d'+i)))
		require.NoError(t, err)
	}
	assert.Len(t, recent, entity.MaxRecentlyViewed)
}

func TestRecentlyViewedKeepsOrderAndSkipsMissing(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{UID: "me", RecentlyViewed: []string{"b", "gone", "a"}},
		&entity.User{UID: "a"},
		&entity.User{UID: "b"},
	)
	out, err := NewDiscoveryUseCase(users, newFakeUsernameRepo()).RecentlyViewed(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].UID)
	assert.Equal(t, "a", out[1].UID)
}

func TestListAndSearchUsers(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{UID: "a", DisplayName: "Kwame Farms"},
		&entity.User{UID: "b", DisplayName: "Adjoa"},
		&entity.User{UID: "c", DisplayName: "Kwabena"},
		&entity.User{UID: "me", DisplayName: "Kwame Me"},
	)
	names := newFakeUsernameRepo()
	names.records["b"] = "kwadjoa"
	uc := NewDiscoveryUseCase(users, names)
	ctx := context.Background()

	page, err := uc.ListUsers(ctx, "me", utils.CursorParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.Equal(t, "b", page.NextCursor)
	assert.True(t, page.HasMore)
	assert.Equal(t, "kwadjoa", page.Users[1].Username)

	found, err := uc.Search(ctx, "me", "KWA", utils.CursorParams{Limit: 2})
	require.NoError(t, err)
	ids := []string{}
	for _, u := range found {
		ids = append(ids, u.UID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)

	suggested, err := uc.Suggested(ctx, "me")
	require.NoError(t, err)
	for _, u := range suggested {
		assert.NotEqual(t, "me", u.UID)
	}
}
