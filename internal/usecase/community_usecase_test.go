package usecase

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmily/internal/domain/entity"
	"farmily/internal/infrastructure/ratelimit"
)

func newCommunityFixture() (*CommunityUseCase, *fakePostRepo, *fakeCommunityRepo, *fakeLimiter) {
	posts := newFakePostRepo()
	community := &fakeCommunityRepo{}
	users := newFakeUserRepo(&entity.User{UID: "u1", DisplayName: "Efua"})
	names := newFakeUsernameRepo()
	names.records["u1"] = "efua_farms"
	limiter := &fakeLimiter{deny: map[string]bool{}}
	return NewCommunityUseCase(posts, community, users, names, limiter), posts, community, limiter
}

func TestCreatePostAuthorAndRateLimit(t *testing.T) {
	uc, _, _, limiter := newCommunityFixture()
	ctx := context.Background()

	post, err := uc.CreatePost(ctx, "u1", PostInput{Title: "Rain", Content: "Early rains this year"})
	require.NoError(t, err)
	assert.Equal(t, "efua_farms", post.AuthorName)
	assert.Equal(t, entity.DefaultCategories[0], post.Category)

	anon, err := uc.CreatePost(ctx, "ghost", PostInput{Title: "Hi", Content: "There"})
	require.NoError(t, err)
	assert.Equal(t, entity.AnonymousAuthorName, anon.AuthorName)

	limiter.deny[ratelimit.ActionCreatePost] = true
	_, err = uc.CreatePost(ctx, "u1", PostInput{Title: "Spam", Content: "Spam"})
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))
}

func TestLikeOnce(t *testing.T) {
	uc, _, _, _ := newCommunityFixture()
	ctx := context.Background()
	post, err := uc.CreatePost(ctx, "u1", PostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	liked, err := uc.LikePost(ctx, "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	_, err = uc.LikePost(ctx, "u2", post.ID)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.Contains(t, err.Error(), "You have already liked this post")
}

func TestPostSearchEditAndComments(t *testing.T) {
	uc, posts, _, _ := newCommunityFixture()
	ctx := context.Background()
	first, err := uc.CreatePost(ctx, "u1", PostInput{Title: "Cocoa prices", Content: "Up again", Category: "Market Insights"})
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-time.Hour)
	_, err = uc.CreatePost(ctx, "u1", PostInput{Title: "Goats", Content: "Feeding tips", Category: "Livestock"})
	require.NoError(t, err)

	found, err := uc.ListPosts(ctx, "COCOA", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	byCat, err := uc.ListPosts(ctx, "", "Livestock")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	_, err = uc.EditPost(ctx, "u2", first.ID, "hijack")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	edited, err := uc.EditPost(ctx, "u1", first.ID, "Down now")
	require.NoError(t, err)
	assert.Equal(t, "Down now", edited.Content)

	_, err = uc.AddComment(ctx, "u1", first.ID, "Agreed")
	require.NoError(t, err)
	comments, err := uc.ListComments(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, 1, posts.posts[first.ID].CommentCount)

	require.NoError(t, uc.DeletePost(ctx, "u1", first.ID))
}

func TestCategoriesFallback(t *testing.T) {
	uc, _, community, _ := newCommunityFixture()

	cats, err := uc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, len(entity.DefaultCategories))
	assert.Equal(t, "General Farming", cats[0].Name)

	community.categories = []*entity.Category{{ID: "c1", Name: "Beekeeping", Order: 1}}
	cats, err = uc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Beekeeping", cats[0].Name)
}

func TestOverviewToleratesFailures(t *testing.T) {
	uc, _, community, _ := newCommunityFixture()
	community.statsErr = stderrors.New("boom")

	o := uc.Overview(context.Background())
	assert.Len(t, o.Announcements, 1)
	assert.NotNil(t, o.MarketUpdates)
	assert.Equal(t, 0, o.Stats.Members)
}

func TestAskExpert(t *testing.T) {
	uc, _, community, _ := newCommunityFixture()
	q, err := uc.AskExpert(context.Background(), "u1", "Best maize spacing?", "Crop Management")
	require.NoError(t, err)
	assert.Equal(t, entity.QuestionPending, q.Status)
	assert.Nil(t, q.Answer)
	assert.Len(t, community.questions, 1)
}
