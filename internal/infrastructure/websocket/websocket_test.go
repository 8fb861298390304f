package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmily/internal/domain/entity"
	apperrors "farmily/pkg/errors"
)

type fakeBackend struct {
	sendErr   error
	sent      []string
	watchers  chan string
	cancelled chan string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		watchers:  make(chan string, 4),
		cancelled: make(chan string, 4),
	}
}

func (b *fakeBackend) SendMessage(_ context.Context, senderID, recipientID, text string) (*entity.Message, error) {
	if b.sendErr != nil {
		return nil, b.sendErr
	}
	b.sent = append(b.sent, text)
	chatID, _ := entity.ChatID(senderID, recipientID)
	return &entity.Message{ID: "m1", ChatID: chatID, SenderID: senderID, Text: text, Timestamp: time.Now()}, nil
}

func (b *fakeBackend) WatchChat(ctx context.Context, uid, otherID string, fn func([]*entity.Message)) error {
	chatID, _ := entity.ChatID(uid, otherID)
	b.watchers <- chatID
	fn([]*entity.Message{{ID: "m0", ChatID: chatID, SenderID: otherID, Text: "hello"}})
	<-ctx.Done()
	b.cancelled <- chatID
	return ctx.Err()
}

func (b *fakeBackend) WatchFeed(ctx context.Context, fn func([]*entity.Post)) error {
	b.watchers <- feedRoom
	fn([]*entity.Post{{ID: "p1", Title: "Harvest tips"}})
	<-ctx.Done()
	b.cancelled <- feedRoom
	return ctx.Err()
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func next(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return frame{}
	}
}

func wait(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
		return ""
	}
}

func send(m *Manager, c *Client, msgType string, data interface{}) {
	raw, _ := json.Marshal(data)
	msg, _ := json.Marshal(WSMessage{Type: msgType, Data: raw})
	m.HandleClientMessage(c, msg)
}

func TestOutboxRollbackRestoresText(t *testing.T) {
	o := NewOutbox()
	o.Add(PendingMessage{TempID: "temp-1", Text: "Maize is ready"})
	o.Add(PendingMessage{TempID: "temp-2", Text: "second"})
	require.Len(t, o.Pending(), 2)
	assert.True(t, o.Pending()[0].Sending)

	p, ok := o.Rollback("temp-1")
	require.True(t, ok)
	assert.Equal(t, "Maize is ready", p.Text)
	assert.Len(t, o.Pending(), 1)

	assert.True(t, o.Confirm("temp-2"))
	assert.False(t, o.Confirm("temp-2"))
	assert.Empty(t, o.Pending())
}

func TestSendMessageConfirmsPlaceholder(t *testing.T) {
	backend := newFakeBackend()
	m := NewManager(backend, nil)
	c := NewClient("alice", nil)

	send(m, c, MessageTypeSendMessage, SendMessageData{TempID: "temp-42", UserID: "bob", Text: "Tomatoes at 5"})

	pending := next(t, c)
	assert.Equal(t, MessageTypeMessagePending, pending.Type)

	confirmed := next(t, c)
	require.Equal(t, MessageTypeMessage, confirmed.Type)
	var data MessageData
	require.NoError(t, json.Unmarshal(confirmed.Data, &data))
	assert.Equal(t, "temp-42", data.TempID)
	assert.Equal(t, "alice_bob", data.ChatID)
	assert.Empty(t, c.Outbox().Pending())
}

func TestSendMessageFailureRollsBack(t *testing.T) {
	backend := newFakeBackend()
	backend.sendErr = errors.New("firestore unavailable")
	m := NewManager(backend, nil)
	c := NewClient("alice", nil)

	send(m, c, MessageTypeSendMessage, SendMessageData{TempID: "temp-7", UserID: "bob", Text: "  Need seeds  "})

	assert.Equal(t, MessageTypeMessagePending, next(t, c).Type)
	failed := next(t, c)
	require.Equal(t, MessageTypeMessageFailed, failed.Type)

	var data FailedMessageData
	require.NoError(t, json.Unmarshal(failed.Data, &data))
	assert.Equal(t, "temp-7", data.TempID)
	assert.Equal(t, "  Need seeds  ", data.Text, "the input text is restored as typed")
	assert.Empty(t, c.Outbox().Pending())
}

func TestSendMessageRateLimited(t *testing.T) {
	backend := newFakeBackend()
	backend.sendErr = apperrors.TooManyRequests("Rate limit exceeded", 3*time.Second)
	m := NewManager(backend, nil)
	c := NewClient("alice", nil)

	send(m, c, MessageTypeSendMessage, SendMessageData{UserID: "bob", Text: "hi"})

	assert.Equal(t, MessageTypeMessagePending, next(t, c).Type)
	assert.Equal(t, MessageTypeRateLimited, next(t, c).Type)
	assert.Equal(t, MessageTypeMessageFailed, next(t, c).Type)
}

func TestSendMessageValidation(t *testing.T) {
	m := NewManager(newFakeBackend(), nil)
	c := NewClient("alice", nil)

	send(m, c, MessageTypeSendMessage, SendMessageData{UserID: "bob", Text: "   "})
	assert.Equal(t, MessageTypeError, next(t, c).Type)

	m.HandleClientMessage(c, []byte("not json"))
	assert.Equal(t, MessageTypeError, next(t, c).Type)

	send(m, c, "dance", nil)
	assert.Equal(t, MessageTypeError, next(t, c).Type)
}

func TestJoinAndLeaveRoomManagesListener(t *testing.T) {
	backend := newFakeBackend()
	m := NewManager(backend, nil)
	c := NewClient("bob", nil)

	send(m, c, MessageTypeJoinRoom, RoomData{UserID: "alice"})
	assert.Equal(t, "alice_bob", wait(t, backend.watchers))

	f := next(t, c)
	assert.Equal(t, MessageTypeMessages, f.Type)
	assert.Equal(t, []string{"alice_bob"}, c.Rooms())

	send(m, c, MessageTypeLeaveRoom, RoomData{UserID: "alice"})
	assert.Equal(t, "alice_bob", wait(t, backend.cancelled))
	assert.Empty(t, c.Rooms())
}

func TestUnregisterCancelsListeners(t *testing.T) {
	backend := newFakeBackend()
	m := NewManager(backend, nil)
	c := NewClient("bob", nil)
	m.add(c)
	assert.True(t, m.IsOnline("bob"))

	send(m, c, MessageTypeJoinFeed, nil)
	assert.Equal(t, feedRoom, wait(t, backend.watchers))
	assert.Equal(t, MessageTypeFeedUpdate, next(t, c).Type)

	m.remove(c)
	assert.Equal(t, feedRoom, wait(t, backend.cancelled))
	assert.False(t, m.IsOnline("bob"))
	_, open := <-c.Send
	assert.False(t, open)
}

func TestStoppedManagerDoesNotBlock(t *testing.T) {
	m := NewManager(newFakeBackend(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	live := NewClient("ama", nil)
	require.True(t, m.Connect(live))
	require.Eventually(t, func() bool { return m.IsOnline("ama") }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("manager loop did not stop")
	}

	returned := make(chan struct{})
	go func() {
		m.disconnect(live)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("disconnect blocked after shutdown")
	}

	late := NewClient("kofi", nil)
	assert.False(t, m.Connect(late))
	_, open := <-late.Send
	assert.False(t, open)
}

func TestSendToUserReachesEveryConnection(t *testing.T) {
	m := NewManager(newFakeBackend(), nil)
	tab1 := NewClient("ama", nil)
	tab2 := NewClient("ama", nil)
	m.add(tab1)
	m.add(tab2)

	m.NotifyChatList("ama", &entity.Chat{ID: "ama_kofi", LastMessage: "see you"})

	assert.Equal(t, MessageTypeChatListUpdate, next(t, tab1).Type)
	assert.Equal(t, MessageTypeChatListUpdate, next(t, tab2).Type)
}

func TestTypingRelayedToPartner(t *testing.T) {
	m := NewManager(newFakeBackend(), nil)
	alice := NewClient("alice", nil)
	bob := NewClient("bob", nil)
	m.add(alice)
	m.add(bob)

	send(m, alice, MessageTypeTyping, TypingData{UserID: "bob", Typing: true})
	assert.Equal(t, MessageTypeTyping, next(t, bob).Type)
}
