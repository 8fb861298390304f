package repository

import (
	"context"

	"farmily/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, uid string) (*entity.User, error)
	GetByIDs(ctx context.Context, uids []string) ([]*entity.User, error)
	// Update merges fields into the profile. Nested maps merge key by key.
	Update(ctx context.Context, uid string, fields map[string]interface{}) error
	// List pages through users ordered by uid, starting after the given uid.
	List(ctx context.Context, afterUID string, limit int) ([]*entity.User, error)
	SetRecentlyViewed(ctx context.Context, uid string, ids []string) error
}

type UsernameRepository interface {
	Get(ctx context.Context, uid string) (*entity.UsernameRecord, error)
	// FindByUID looks the record up by its uid field instead of the document id.
	FindByUID(ctx context.Context, uid string) (*entity.UsernameRecord, error)
	GetMany(ctx context.Context, uids []string) (map[string]string, error)
	IsTaken(ctx context.Context, username string) (bool, error)
	// Reserve atomically claims record.Username for record.UID. It fails
	// with a conflict when another user already holds the name.
	Reserve(ctx context.Context, record *entity.UsernameRecord) error
	// Change atomically moves uid to the new username, updating the profile
	// too. It fails with a conflict when another user holds the name.
	Change(ctx context.Context, uid, username string) error
}
