package repository

import (
	"context"
	"time"

	"farmily/internal/domain/entity"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Post, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	// Like records the like activity and increments the counter. A second
	// like by the same user fails with a conflict.
	Like(ctx context.Context, uid, postID string) (*entity.Post, error)
	// AddComment writes the comment, its activity record and the post's
	// comment count together.
	AddComment(ctx context.Context, comment *entity.Comment) error
	ListComments(ctx context.Context, postID string) ([]*entity.Comment, error)
	WatchRecent(ctx context.Context, limit int, fn func([]*entity.Post)) error
}

type CommunityRepository interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	CreateQuestion(ctx context.Context, q *entity.ExpertQuestion) error
	ListPinnedAnnouncements(ctx context.Context, limit int) ([]*entity.Announcement, error)
	ListActiveMarketUpdates(ctx context.Context, now time.Time, limit int) ([]*entity.MarketUpdate, error)
	GetStats(ctx context.Context) (*entity.CommunityStats, error)
}
