package chat

import (
	"errors"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"foundernet/pkg/metrics"
)

var (
	ErrUserOffline = errors.New("user is not online")
	ErrQueueFull   = errors.New("user message queue full")
)

const sendBuffer = 32

// Client is one live connection. A user holds at most one.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan any
	Done   chan struct{}

	closeOnce sync.Once
}

func newClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan any, sendBuffer), Done: make(chan struct{})}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.Done)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// push queues an event without blocking.
func (c *Client) push(event any) error {
	select {
	case <-c.Done:
		return ErrUserOffline
	default:
	}
	select {
	case c.Send <- event:
		return nil
	case <-c.Done:
		return ErrUserOffline
	default:
		return ErrQueueFull
	}
}

// ConnectionManager tracks online users.
type ConnectionManager struct {
	mu      sync.RWMutex
	clients map[string]*Client
	metrics *metrics.Metrics
}

func NewConnectionManager(m *metrics.Metrics) *ConnectionManager {
	return &ConnectionManager{clients: make(map[string]*Client), metrics: m}
}

// AddClient registers a connection, closing any previous one for the same user.
func (cm *ConnectionManager) AddClient(userID string, conn *websocket.Conn) *Client {
	client := newClient(userID, conn)

	cm.mu.Lock()
	previous := cm.clients[userID]
	cm.clients[userID] = client
	n := len(cm.clients)
	cm.mu.Unlock()

	if previous != nil {
		previous.close()
	}
	cm.metrics.SetOnlineUsers(n)
	return client
}

// RemoveClient unregisters client only if it is still the user's current connection.
func (cm *ConnectionManager) RemoveClient(client *Client) {
	cm.mu.Lock()
	if current, ok := cm.clients[client.UserID]; ok && current == client {
		delete(cm.clients, client.UserID)
	}
	n := len(cm.clients)
	cm.mu.Unlock()

	client.close()
	cm.metrics.SetOnlineUsers(n)
}

func (cm *ConnectionManager) IsOnline(userID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, ok := cm.clients[userID]
	return ok
}

func (cm *ConnectionManager) OnlineUsers() []string {
	cm.mu.RLock()
	users := make([]string, 0, len(cm.clients))
	for id := range cm.clients {
		users = append(users, id)
	}
	cm.mu.RUnlock()

	sort.Strings(users)
	return users
}

func (cm *ConnectionManager) SendToUser(userID string, event any) error {
	cm.mu.RLock()
	client, ok := cm.clients[userID]
	cm.mu.RUnlock()
	if !ok {
		return ErrUserOffline
	}
	return client.push(event)
}
