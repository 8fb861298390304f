package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"farmily/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 64
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	outbox *Outbox
	mu     sync.Mutex
	rooms  map[string]*subscription
	closed bool
}

type subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		outbox: NewOutbox(),
		rooms:  make(map[string]*subscription),
	}
}

// Outbox holds the client's unconfirmed sends.
func (c *Client) Outbox() *Outbox {
	return c.outbox
}

// subscribe registers a listener under room, cancelling any earlier one.
// It reports false once the client is closed.
func (c *Client) subscribe(ctx context.Context, room string, cancel context.CancelFunc) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if prev, ok := c.rooms[room]; ok {
		prev.cancel()
	}
	c.rooms[room] = &subscription{ctx: ctx, cancel: cancel}
	return true
}

func (c *Client) unsubscribe(room string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.rooms[room]
	if ok {
		sub.cancel()
		delete(c.rooms, room)
	}
	return ok
}

// unsubscribeIfCurrent clears room when ctx still belongs to its listener.
func (c *Client) unsubscribeIfCurrent(ctx context.Context, room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sub, ok := c.rooms[room]; ok && sub.ctx == ctx {
		sub.cancel()
		delete(c.rooms, room)
	}
}

// Rooms lists the rooms with an active listener.
func (c *Client) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.rooms))
	for r := range c.rooms {
		out = append(out, r)
	}
	return out
}

// close cancels every listener and closes Send exactly once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for room, sub := range c.rooms {
		sub.cancel()
		delete(c.rooms, room)
	}
	close(c.Send)
}

// push queues data without blocking. Full or closed clients drop the frame.
func (c *Client) push(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// ConnectionObserver is notified as clients come and go.
type ConnectionObserver interface {
	WSConnected()
	WSDisconnected()
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex

	backend  Backend
	observer ConnectionObserver
	timeout  time.Duration

	// done is closed once the main loop has exited.
	done chan struct{}
}

func NewManager(backend Backend, observer ConnectionObserver) *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		backend:    backend,
		observer:   observer,
		timeout:    15 * time.Second,
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.Register:
				m.add(client)

			case client := <-m.Unregister:
				m.remove(client)

			case <-ctx.Done():
				m.closeAll()
				return
			}
		}
	}()
}

// Connect hands a new client to the main loop. It reports false, leaving the
// client closed, once the manager has stopped.
func (m *Manager) Connect(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		client.close()
		return false
	}
}

func (m *Manager) disconnect(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
		client.close()
	}
}

func (m *Manager) add(client *Client) {
	m.mutex.Lock()
	set, ok := m.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[client.UserID] = set
	}
	set[client] = struct{}{}
	m.mutex.Unlock()

	if m.observer != nil {
		m.observer.WSConnected()
	}
	logger.Debug("WebSocket: client registered: %s", client.UserID)
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	set, ok := m.clients[client.UserID]
	if ok {
		if _, present := set[client]; !present {
			ok = false
		}
		delete(set, client)
		if len(set) == 0 {
			delete(m.clients, client.UserID)
		}
	}
	m.mutex.Unlock()

	client.close()
	if ok && m.observer != nil {
		m.observer.WSDisconnected()
	}
	logger.Debug("WebSocket: client unregistered: %s", client.UserID)
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	all := m.clients
	m.clients = make(map[string]map[*Client]struct{})
	m.mutex.Unlock()

	for _, set := range all {
		for c := range set {
			c.close()
		}
	}
}

// IsOnline reports whether the user has at least one open connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID]) > 0
}

// SendToUser sends a message to every connection of a user.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	targets := make([]*Client, 0, len(m.clients[userID]))
	for c := range m.clients[userID] {
		targets = append(targets, c)
	}
	m.mutex.RUnlock()

	for _, c := range targets {
		if !c.push(message) {
			logger.Warn("WebSocket: dropped frame for %s", userID)
		}
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.disconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for %s: %v", c.UserID, err)
			}
			return
		}
		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
