package entity

import (
	"errors"
	"time"
)

var ErrInvalidChatPair = errors.New("chat needs two distinct participants")

type Chat struct {
	ID              string    `json:"id" firestore:"-"`
	Participants    []string  `json:"participants" firestore:"participants"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	LastMessage     string    `json:"last_message" firestore:"lastMessage"`
	LastMessageTime time.Time `json:"last_message_time" firestore:"lastMessageTime"`
}

// ChatID is the room id for a direct conversation. It depends only on the
// pair, so ChatID(a, b) == ChatID(b, a).
func ChatID(a, b string) (string, error) {
	if a == "" || b == "" || a == b {
		return "", ErrInvalidChatPair
	}
	if a < b {
		return a + "_" + b, nil
	}
	return b + "_" + a, nil
}

// OtherParticipant returns the participant that is not uid.
func (c *Chat) OtherParticipant(uid string) string {
	for _, p := range c.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}

func (c *Chat) HasParticipant(uid string) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Group is a read-only multi-member conversation.
type Group struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Members   []string  `json:"members" firestore:"members"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
