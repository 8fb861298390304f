package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
	groupsCollection   = "groups"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func decodeChat(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID
	return &chat, nil
}

func decodeMessage(chatID string, doc *firestore.DocumentSnapshot) (*entity.Message, error) {
	var msg entity.Message
	if err := doc.DataTo(&msg); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	msg.ID = doc.Ref.ID
	msg.ChatID = chatID
	return &msg, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, chatID string) (*entity.Chat, error) {
	doc, err := r.client.Collection(chatsCollection).Doc(chatID).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Chat", "get chat")
	}
	return decodeChat(doc)
}

func (r *firestoreChatRepository) ListByParticipant(ctx context.Context, uid string) ([]*entity.Chat, error) {
	iter := r.client.Collection(chatsCollection).Where("participants", "array-contains", uid).Documents(ctx)
	defer iter.Stop()

	chats := []*entity.Chat{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Chat", "list chats")
		}
		chat, err := decodeChat(doc)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}

	// Sorted here so the query needs no composite index.
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageTime.After(chats[j].LastMessageTime)
	})
	return chats, nil
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, chatID string, participants []string, message *entity.Message) error {
	chatRef := r.client.Collection(chatsCollection).Doc(chatID)
	msgRef := chatRef.Collection(messagesCollection).NewDoc()

	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(chatRef)
		switch {
		case status.Code(err) == codes.NotFound:
			err = tx.Create(chatRef, &entity.Chat{
				Participants:    participants,
				CreatedAt:       message.Timestamp,
				LastMessage:     message.Text,
				LastMessageTime: message.Timestamp,
			})
		case err == nil:
			err = tx.Update(chatRef, []firestore.Update{
				{Path: "lastMessage", Value: message.Text},
				{Path: "lastMessageTime", Value: message.Timestamp},
			})
		}
		if err != nil {
			return err
		}
		return tx.Create(msgRef, message)
	})
	if err != nil {
		return errors.FromFirestore(err, "Message", "send message")
	}

	message.ID = msgRef.ID
	message.ChatID = chatID
	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error) {
	query := r.client.Collection(chatsCollection).Doc(chatID).Collection(messagesCollection).
		OrderBy("timestamp", firestore.Asc)
	if limit > 0 {
		query = query.LimitToLast(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.FromFirestore(err, "Message", "load messages")
	}

	messages := make([]*entity.Message, 0, len(docs))
	for _, doc := range docs {
		msg, err := decodeMessage(chatID, doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *firestoreChatRepository) WatchMessages(ctx context.Context, chatID string, fn func([]*entity.Message)) error {
	query := r.client.Collection(chatsCollection).Doc(chatID).Collection(messagesCollection).
		OrderBy("timestamp", firestore.Asc)

	snaps := query.Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return errors.FromFirestore(err, "Message", "watch messages")
		}

		var added []*entity.Message
		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}
			msg, err := decodeMessage(chatID, change.Doc)
			if err != nil {
				continue
			}
			added = append(added, msg)
		}
		if len(added) > 0 {
			fn(added)
		}
	}
}

func (r *firestoreChatRepository) ListGroups(ctx context.Context, uid string) ([]*entity.Group, error) {
	iter := r.client.Collection(groupsCollection).Where("members", "array-contains", uid).Documents(ctx)
	defer iter.Stop()

	groups := []*entity.Group{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Group", "list groups")
		}

		var group entity.Group
		if err := doc.DataTo(&group); err != nil {
			return nil, errors.Internal("Failed to parse group data", err)
		}
		group.ID = doc.Ref.ID
		groups = append(groups, &group)
	}
	return groups, nil
}
