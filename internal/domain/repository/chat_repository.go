package repository

import (
	"context"

	"farmily/internal/domain/entity"
)

type ChatRepository interface {
	GetByID(ctx context.Context, chatID string) (*entity.Chat, error)
	ListByParticipant(ctx context.Context, uid string) ([]*entity.Chat, error)
	// AppendMessage creates the chat when it does not exist yet and writes the
	// message, both in a single transaction.
	AppendMessage(ctx context.Context, chatID string, participants []string, message *entity.Message) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error)
	// WatchMessages calls fn with messages added to the chat until ctx is done.
	WatchMessages(ctx context.Context, chatID string, fn func([]*entity.Message)) error
	ListGroups(ctx context.Context, uid string) ([]*entity.Group, error)
}
