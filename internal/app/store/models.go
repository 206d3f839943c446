/*
Package store defines the persistence collaborator of the real-time core:
the narrow set of durable lookups and writes the chat hub depends on, plus
the Postgres implementation backing it.
*/
package store

import "time"

// MessageType tags the kind of content a message carries.
type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
	MessageFile  MessageType = "FILE"
)

// Valid reports whether t is one of the supported message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile:
		return true
	}
	return false
}

// User is the identity summary the core caches for the lifetime of a
// connection. Durable state (online flag, last seen) is owned by the store.
type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// DisplayName returns the user's preferred display name, falling back to the
// username when no full name is set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Message is a persisted chat message. Exactly one of ReceiverID and GroupID
// is set: a direct message or a group message, never both.
type Message struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId,omitempty"`
	GroupID    string      `json:"groupId,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`

	// Sender carries the sender's identity summary for client display.
	Sender User `json:"sender"`
}

// CreateMessageParams are the inputs for persisting a new message. The store
// assigns the id and timestamp.
type CreateMessageParams struct {
	SenderID   string
	Content    string
	Type       MessageType
	ReceiverID string
	GroupID    string
}
