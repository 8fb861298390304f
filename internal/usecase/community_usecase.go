package usecase

import (
	"context"
	"strings"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/internal/infrastructure/ratelimit"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
)

const (
	AnnouncementLimit = 5
	MarketUpdateLimit = 5
)

type CommunityUseCase struct {
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	usernameRepo  repository.UsernameRepository
	limiter       Limiter
	now           func() time.Time
}

func NewCommunityUseCase(
	postRepo repository.PostRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	usernameRepo repository.UsernameRepository,
	limiter Limiter,
) *CommunityUseCase {
	return &CommunityUseCase{
		postRepo:      postRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		usernameRepo:  usernameRepo,
		limiter:       limiter,
		now:           time.Now,
	}
}

func (uc *CommunityUseCase) authorName(ctx context.Context, uid string) string {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return entity.AnonymousAuthorName
	}
	if record, err := uc.usernameRepo.Get(ctx, uid); err == nil && record.Username != "" {
		user.Username = record.Username
	}
	return user.AuthorName()
}

type PostInput struct {
	Title    string
	Content  string
	Category string
}

func (uc *CommunityUseCase) CreatePost(ctx context.Context, uid string, in PostInput) (*entity.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, errors.BadRequest("title and content are required", nil)
	}
	if ok, wait := uc.limiter.Allow(uid, ratelimit.ActionCreatePost); !ok {
		return nil, errors.TooManyRequests("You are posting too quickly", wait)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = entity.DefaultCategories[0]
	}

	post := &entity.Post{
		Title:      title,
		Content:    content,
		Category:   category,
		AuthorID:   uid,
		AuthorName: uc.authorName(ctx, uid),
		CreatedAt:  uc.now(),
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	logger.Info("User %s created post %s", uid, post.ID)
	return post, nil
}

func matchesPost(p *entity.Post, q string) bool {
	for _, field := range []string{p.Title, p.Content, p.Category, p.AuthorName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// ListPosts returns the newest posts, optionally narrowed by a search term
// and a category.
func (uc *CommunityUseCase) ListPosts(ctx context.Context, query, category string) ([]*entity.Post, error) {
	posts, err := uc.postRepo.ListRecent(ctx, entity.MaxFeedPosts)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" && category == "" {
		return posts, nil
	}
	out := make([]*entity.Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" && !matchesPost(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (uc *CommunityUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return uc.postRepo.GetByID(ctx, id)
}

func (uc *CommunityUseCase) authoredPost(ctx context.Context, uid, id string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != uid {
		return nil, errors.Forbidden("Only the author can change this post", nil)
	}
	return post, nil
}

func (uc *CommunityUseCase) EditPost(ctx context.Context, uid, id, content string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("content is required", nil)
	}
	post, err := uc.authoredPost(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if err := uc.postRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	post.Content = content
	post.UpdatedAt = uc.now()
	return post, nil
}

func (uc *CommunityUseCase) DeletePost(ctx context.Context, uid, id string) error {
	if _, err := uc.authoredPost(ctx, uid, id); err != nil {
		return err
	}
	return uc.postRepo.Delete(ctx, id)
}

func (uc *CommunityUseCase) LikePost(ctx context.Context, uid, id string) (*entity.Post, error) {
	return uc.postRepo.Like(ctx, uid, id)
}

func (uc *CommunityUseCase) AddComment(ctx context.Context, uid, postID, content string) (*entity.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("content is required", nil)
	}
	comment := &entity.Comment{
		PostID:     postID,
		Content:    content,
		AuthorID:   uid,
		AuthorName: uc.authorName(ctx, uid),
		CreatedAt:  uc.now(),
	}
	if err := uc.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *CommunityUseCase) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	return uc.postRepo.ListComments(ctx, postID)
}

func (uc *CommunityUseCase) Categories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := uc.communityRepo.ListCategories(ctx)
	if err != nil {
		logger.Warn("Falling back to default categories: %v", err)
	}
	if len(categories) > 0 {
		return categories, nil
	}

	defaults := make([]*entity.Category, 0, len(entity.DefaultCategories))
	for i, name := range entity.DefaultCategories {
		defaults = append(defaults, &entity.Category{Name: name, Order: i + 1})
	}
	return defaults, nil
}

func (uc *CommunityUseCase) AskExpert(ctx context.Context, uid, question, category string) (*entity.ExpertQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.BadRequest("question is required", nil)
	}
	q := &entity.ExpertQuestion{
		Question:   question,
		Category:   category,
		AuthorID:   uid,
		AuthorName: uc.authorName(ctx, uid),
		Status:     entity.QuestionPending,
		CreatedAt:  uc.now(),
	}
	if err := uc.communityRepo.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

type CommunityOverview struct {
	Announcements []*entity.Announcement `json:"announcements"`
	MarketUpdates []*entity.MarketUpdate `json:"market_updates"`
	Stats         *entity.CommunityStats `json:"stats"`
}

// Overview gathers the side panels of the community page. A panel that
// fails to load is returned empty.
func (uc *CommunityUseCase) Overview(ctx context.Context) *CommunityOverview {
	out := &CommunityOverview{
		Announcements: []*entity.Announcement{},
		MarketUpdates: []*entity.MarketUpdate{},
		Stats:         &entity.CommunityStats{},
	}
	if a, err := uc.communityRepo.ListPinnedAnnouncements(ctx, AnnouncementLimit); err == nil {
		out.Announcements = a
	} else {
		logger.Warn("Failed to load announcements: %v", err)
	}
	if m, err := uc.communityRepo.ListActiveMarketUpdates(ctx, uc.now(), MarketUpdateLimit); err == nil {
		out.MarketUpdates = m
	} else {
		logger.Warn("Failed to load market updates: %v", err)
	}
	if s, err := uc.communityRepo.GetStats(ctx); err == nil {
		out.Stats = s
	} else {
		logger.Warn("Failed to load community stats: %v", err)
	}
	return out
}
