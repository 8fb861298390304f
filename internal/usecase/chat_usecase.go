package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/internal/infrastructure/ratelimit"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
)

const (
	MaxMessageLength = 2000
	MessageHistory   = 200
)

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	limiter  Limiter
	notifier Notifier
	now      func() time.Time
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository, postRepo repository.PostRepository, limiter Limiter) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		postRepo: postRepo,
		limiter:  limiter,
		notifier: nopNotifier{},
		now:      time.Now,
	}
}

// SetNotifier attaches the realtime hub once it exists.
func (uc *ChatUseCase) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	uc.notifier = n
}

func chatID(uid, otherID string) (string, error) {
	id, err := entity.ChatID(uid, otherID)
	if err != nil {
		return "", errors.BadRequest("A chat needs another user", err)
	}
	return id, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, recipientID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	id, err := chatID(senderID, recipientID)
	if err != nil {
		return nil, err
	}

	if ok, wait := uc.limiter.Allow(senderID, ratelimit.ActionSendMessage); !ok {
		return nil, errors.TooManyRequests("You are sending messages too quickly", wait)
	}

	msg := &entity.Message{
		Text:      text,
		SenderID:  senderID,
		Timestamp: uc.now(),
	}
	if err := uc.chatRepo.AppendMessage(ctx, id, []string{senderID, recipientID}, msg); err != nil {
		logger.Error("Failed to send message in chat %s: %v", id, err)
		return nil, err
	}

	chat := &entity.Chat{
		ID:              id,
		Participants:    []string{senderID, recipientID},
		LastMessage:     msg.Text,
		LastMessageTime: msg.Timestamp,
	}
	uc.notifier.NotifyChatList(senderID, chat)
	uc.notifier.NotifyChatList(recipientID, chat)
	return msg, nil
}

func (uc *ChatUseCase) Messages(ctx context.Context, uid, otherID string) ([]*entity.Message, error) {
	id, err := chatID(uid, otherID)
	if err != nil {
		return nil, err
	}
	return uc.chatRepo.ListMessages(ctx, id, MessageHistory)
}

type ChatSummary struct {
	*entity.Chat
	OtherUser *entity.User `json:"other_user,omitempty"`
}

func (uc *ChatUseCase) ListChats(ctx context.Context, uid string) ([]*ChatSummary, error) {
	chats, err := uc.chatRepo.ListByParticipant(ctx, uid)
	if err != nil {
		return nil, err
	}

	others := make([]string, 0, len(chats))
	for _, c := range chats {
		if other := c.OtherParticipant(uid); other != "" {
			others = append(others, other)
		}
	}
	users, err := uc.userRepo.GetByIDs(ctx, others)
	if err != nil {
		logger.Warn("Failed to load chat participants for %s: %v", uid, err)
	}
	byID := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byID[u.UID] = publicProfile(u)
	}

	out := make([]*ChatSummary, 0, len(chats))
	for _, c := range chats {
		out = append(out, &ChatSummary{Chat: c, OtherUser: byID[c.OtherParticipant(uid)]})
	}
	return out, nil
}

func (uc *ChatUseCase) Groups(ctx context.Context, uid string) ([]*entity.Group, error) {
	return uc.chatRepo.ListGroups(ctx, uid)
}

func (uc *ChatUseCase) WatchChat(ctx context.Context, uid, otherID string, fn func([]*entity.Message)) error {
	id, err := chatID(uid, otherID)
	if err != nil {
		return err
	}
	return uc.chatRepo.WatchMessages(ctx, id, fn)
}

func (uc *ChatUseCase) WatchFeed(ctx context.Context, fn func([]*entity.Post)) error {
	return uc.postRepo.WatchRecent(ctx, entity.MaxFeedPosts, fn)
}
