package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Store implementations. Callers translate these
// into the errs taxonomy at the edge; anything else is a storage fault.
var (
	// ErrNotFound means the addressed user or message does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrForbidden means the requester is not allowed to mutate the record,
	// e.g. deleting a message they did not send.
	ErrForbidden = errors.New("store: forbidden")
)

// Store is the persistence boundary of the real-time core. Every call is
// synchronous from the core's point of view and may fail with a generic
// storage error; the core never caches results beyond one event.
type Store interface {
	// FindUser resolves a user id to its identity summary.
	FindUser(ctx context.Context, id string) (*User, error)

	// CreateMessage persists a message, assigning its id and timestamp, and
	// returns it with the sender summary attached.
	CreateMessage(ctx context.Context, params CreateMessageParams) (*Message, error)

	// DeleteMessage hard-deletes a message. It returns the deleted message so
	// the caller can route a deletion notice, ErrNotFound when absent, and
	// ErrForbidden when requesterID is not the original sender.
	DeleteMessage(ctx context.Context, messageID, requesterID string) (*Message, error)

	// IsGroupMember reports whether the user currently belongs to the group.
	IsGroupMember(ctx context.Context, userID, groupID string) (bool, error)

	// ListGroupIDs returns the ids of every group the user belongs to.
	ListGroupIDs(ctx context.Context, userID string) ([]string, error)

	// ListFriendIDs returns the user's friends. Friendship is symmetric.
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)

	// SetOnlineStatus records the user's online flag and last-seen timestamp.
	SetOnlineStatus(ctx context.Context, userID string, online bool, lastSeen time.Time) error
}
