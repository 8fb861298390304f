package usecase

import (
	"time"

	"farmily/internal/domain/entity"
)

// Limiter is the per-user action limiter shared by the use cases.
type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// Notifier pushes updates to connected clients.
type Notifier interface {
	NotifyChatList(userID string, chat *entity.Chat)
}

type nopNotifier struct{}

func (nopNotifier) NotifyChatList(string, *entity.Chat) {}
