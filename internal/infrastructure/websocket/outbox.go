package websocket

import (
	"sync"
	"time"
)

// PendingMessage is a send shown to the user before the store confirms it.
type PendingMessage struct {
	TempID      string    `json:"temp_id"`
	RecipientID string    `json:"recipient_id"`
	Text        string    `json:"text"`
	Sending     bool      `json:"sending"`
	CreatedAt   time.Time `json:"created_at"`
}

// Outbox tracks a connection's optimistic sends in the order they were made.
type Outbox struct {
	mu      sync.Mutex
	pending []PendingMessage
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

// Add places a placeholder. A reused temp id replaces the older entry.
func (o *Outbox) Add(p PendingMessage) {
	p.Sending = true
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removeLocked(p.TempID)
	o.pending = append(o.pending, p)
}

// Confirm drops the placeholder once the message is stored.
func (o *Outbox) Confirm(tempID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.removeLocked(tempID)
	return ok
}

// Rollback drops the placeholder after a failed send and returns it so the
// caller can give the text back to the user.
func (o *Outbox) Rollback(tempID string) (PendingMessage, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.removeLocked(tempID)
}

func (o *Outbox) Pending() []PendingMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]PendingMessage, len(o.pending))
	copy(out, o.pending)
	return out
}

func (o *Outbox) removeLocked(tempID string) (PendingMessage, bool) {
	for i, p := range o.pending {
		if p.TempID == tempID {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			return p, true
		}
	}
	return PendingMessage{}, false
}
