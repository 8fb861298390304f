package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"farmily/internal/domain/entity"
	apperrors "farmily/pkg/errors"
	"farmily/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeSendMessage    = "send_message"
	MessageTypeMessage        = "message"
	MessageTypeMessages       = "messages"
	MessageTypeMessagePending = "message_pending"
	MessageTypeMessageFailed  = "message_failed"
	MessageTypeTyping         = "typing"
	MessageTypeJoinRoom       = "join_room"
	MessageTypeLeaveRoom      = "leave_room"
	MessageTypeJoinFeed       = "join_feed"
	MessageTypeLeaveFeed      = "leave_feed"
	MessageTypeFeedUpdate     = "feed_update"
	MessageTypeChatListUpdate = "chat_list_update"
	MessageTypeRateLimited    = "rate_limit_exceeded"
	MessageTypeError          = "error"

	feedRoom = "feed"
)

// Backend is the chat and feed logic the socket layer delegates to.
type Backend interface {
	SendMessage(ctx context.Context, senderID, recipientID, text string) (*entity.Message, error)
	WatchChat(ctx context.Context, uid, otherID string, fn func([]*entity.Message)) error
	WatchFeed(ctx context.Context, fn func([]*entity.Post)) error
}

// WebSocket Message Structure
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type outgoing struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type SendMessageData struct {
	TempID string `json:"temp_id"`
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type RoomData struct {
	UserID string `json:"user_id"`
}

type TypingData struct {
	UserID string `json:"user_id"`
	Typing bool   `json:"typing"`
}

type MessageData struct {
	ID        string `json:"id"`
	TempID    string `json:"temp_id,omitempty"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type FailedMessageData struct {
	TempID string `json:"temp_id"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func toMessageData(m *entity.Message, tempID string) MessageData {
	return MessageData{
		ID:        m.ID,
		TempID:    tempID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// HandleClientMessage processes incoming WebSocket messages
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage
	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.sendToClient(client, MessageTypePong, map[string]string{"status": "alive"})

	case MessageTypeSendMessage:
		var data SendMessageData
		if err := json.Unmarshal(wsMessage.Data, &data); err != nil {
			m.sendErrorToClient(client, "Invalid send message format")
			return
		}
		m.handleSendMessage(client, data)

	case MessageTypeJoinRoom, MessageTypeLeaveRoom:
		var data RoomData
		if err := json.Unmarshal(wsMessage.Data, &data); err != nil || data.UserID == "" {
			m.sendErrorToClient(client, "user_id is required")
			return
		}
		chatID, err := entity.ChatID(client.UserID, data.UserID)
		if err != nil {
			m.sendErrorToClient(client, "Invalid chat partner")
			return
		}
		if wsMessage.Type == MessageTypeJoinRoom {
			m.joinRoom(client, chatID, data.UserID)
		} else {
			client.unsubscribe(chatID)
		}

	case MessageTypeJoinFeed:
		m.joinFeed(client)

	case MessageTypeLeaveFeed:
		client.unsubscribe(feedRoom)

	case MessageTypeTyping:
		var data TypingData
		if err := json.Unmarshal(wsMessage.Data, &data); err != nil || data.UserID == "" {
			m.sendErrorToClient(client, "user_id is required")
			return
		}
		m.relayTyping(client, data)

	default:
		logger.Debug("WebSocket: unknown message type '%s' from %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "Unknown message type")
	}
}

func (m *Manager) handleSendMessage(client *Client, data SendMessageData) {
	text := strings.TrimSpace(data.Text)
	if text == "" || data.UserID == "" {
		m.sendErrorToClient(client, "Missing required fields")
		return
	}
	if data.TempID == "" {
		data.TempID = "temp-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	pending := PendingMessage{
		TempID:      data.TempID,
		RecipientID: data.UserID,
		Text:        data.Text,
		Sending:     true,
		CreatedAt:   time.Now(),
	}
	client.outbox.Add(pending)
	m.sendToClient(client, MessageTypeMessagePending, pending)

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	msg, err := m.backend.SendMessage(ctx, client.UserID, data.UserID, text)
	if err != nil {
		restored, _ := client.outbox.Rollback(data.TempID)
		failure := FailedMessageData{TempID: data.TempID, Text: restored.Text, Error: "Failed to send message"}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			failure.Error = appErr.Message
			if appErr.Code == "TOO_MANY_REQUESTS" {
				m.sendToClient(client, MessageTypeRateLimited, map[string]interface{}{
					"message":   "You are sending messages too quickly. Please slow down.",
					"wait_time": appErr.RetryIn.Seconds(),
				})
			}
		}
		logger.Warn("WebSocket: send from %s failed: %v", client.UserID, err)
		m.sendToClient(client, MessageTypeMessageFailed, failure)
		return
	}

	client.outbox.Confirm(data.TempID)
	m.sendToClient(client, MessageTypeMessage, toMessageData(msg, data.TempID))
}

func (m *Manager) joinRoom(client *Client, chatID, otherID string) {
	ctx, cancel := context.WithCancel(context.Background())
	if !client.subscribe(ctx, chatID, cancel) {
		cancel()
		return
	}

	go func() {
		defer client.unsubscribeIfCurrent(ctx, chatID)
		err := m.backend.WatchChat(ctx, client.UserID, otherID, func(msgs []*entity.Message) {
			out := make([]MessageData, 0, len(msgs))
			for _, msg := range msgs {
				out = append(out, toMessageData(msg, ""))
			}
			m.sendToClient(client, MessageTypeMessages, map[string]interface{}{
				"chat_id":  chatID,
				"messages": out,
			})
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("WebSocket: chat listener %s for %s stopped: %v", chatID, client.UserID, err)
			m.sendErrorToClient(client, "Chat updates stopped")
		}
	}()
}

func (m *Manager) joinFeed(client *Client) {
	ctx, cancel := context.WithCancel(context.Background())
	if !client.subscribe(ctx, feedRoom, cancel) {
		cancel()
		return
	}

	go func() {
		defer client.unsubscribeIfCurrent(ctx, feedRoom)
		err := m.backend.WatchFeed(ctx, func(posts []*entity.Post) {
			m.sendToClient(client, MessageTypeFeedUpdate, map[string]interface{}{"posts": posts})
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("WebSocket: feed listener for %s stopped: %v", client.UserID, err)
			m.sendErrorToClient(client, "Feed updates stopped")
		}
	}()
}

func (m *Manager) relayTyping(client *Client, data TypingData) {
	chatID, err := entity.ChatID(client.UserID, data.UserID)
	if err != nil {
		return
	}
	payload, err := json.Marshal(outgoing{
		Type: MessageTypeTyping,
		Data: map[string]interface{}{
			"chat_id": chatID,
			"user_id": client.UserID,
			"typing":  data.Typing,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	m.SendToUser(data.UserID, payload)
}

// NotifyChatList tells a user one of their conversations has a new message.
func (m *Manager) NotifyChatList(userID string, chat *entity.Chat) {
	payload, err := json.Marshal(outgoing{
		Type: MessageTypeChatListUpdate,
		Data: map[string]interface{}{
			"chat_id":           chat.ID,
			"last_message":      chat.LastMessage,
			"last_message_time": chat.LastMessageTime.UTC().Format(time.RFC3339Nano),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	m.SendToUser(userID, payload)
}

func (m *Manager) sendToClient(client *Client, msgType string, data interface{}) {
	messageBytes, err := json.Marshal(outgoing{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("WebSocket: failed to marshal %s for %s: %v", msgType, client.UserID, err)
		return
	}

	if !client.push(messageBytes) {
		logger.Warn("WebSocket: client %s send buffer full, dropping %s", client.UserID, msgType)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, MessageTypeError, map[string]string{"error": errorMsg})
}
