package chat

import "time"

const (
	EventMessage = "message"
	EventRead    = "message_read"

	StatusSent   = "sent"
	StatusQueued = "queued"
	StatusError  = "error"

	maxContentLength = 10000
)

// inbound is every frame a client may send. EventType defaults to a message.
type inbound struct {
	EventType   string   `json:"event_type"`
	ClientID    string   `json:"client_id,omitempty"`
	ReceiverID  string   `json:"receiver_id"`
	Content     string   `json:"content"`
	MessageType int16    `json:"message_type,omitempty"`
	MessageIDs  []string `json:"message_ids,omitempty"`
}

// Message is what a receiver gets pushed. ID is the stored message id and is the
// value read receipts refer to.
type Message struct {
	EventType   string    `json:"event_type"`
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	Content     string    `json:"content"`
	MessageType int16     `json:"message_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// Acknowledgement answers the sender. ClientID echoes the sender's correlation id.
type Acknowledgement struct {
	EventType string `json:"event_type"`
	ClientID  string `json:"client_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type ErrorEvent struct {
	EventType string `json:"event_type"`
	Error     string `json:"error"`
}

type ReadReceipt struct {
	EventType  string   `json:"event_type"`
	MessageIDs []string `json:"message_ids"`
	ReadBy     string   `json:"read_by"`
}

type HistoryItem struct {
	ID          int64  `json:"id"`
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"receiver_id"`
	Content     string `json:"content"`
	MessageType int16  `json:"message_type"`
	IsRead      bool   `json:"is_read"`
	MessagedAt  int64  `json:"messaged_at"`
}

// Conversation summarizes the latest exchange with one peer.
type Conversation struct {
	PeerID         string `json:"peer_id"`
	PeerName       string `json:"peer_name"`
	LastMessage    string `json:"last_message"`
	LastMessagedAt int64  `json:"last_messaged_at"`
	Unread         int    `json:"unread"`
}
