package chat

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"pulsechat/internal/app/store"
)

// fakeConn records every event enqueued on it, standing in for a live
// WebSocket connection.
type fakeConn struct {
	user store.User

	mu     sync.Mutex
	events []sentEvent
}

type sentEvent struct {
	Event   string
	Payload any
}

func newFakeConn(userID string) *fakeConn {
	return &fakeConn{
		user: store.User{ID: userID, Username: userID},
	}
}

func (c *fakeConn) UserID() string   { return c.user.ID }
func (c *fakeConn) User() store.User { return c.user }

func (c *fakeConn) Enqueue(event string, payload any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, sentEvent{Event: event, Payload: payload})
	return true
}

// received returns the recorded events with the given name.
func (c *fakeConn) received(event string) []sentEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matches []sentEvent
	for _, e := range c.events {
		if e.Event == event {
			matches = append(matches, e)
		}
	}
	return matches
}

func (c *fakeConn) eventCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// fakeStore is an in-memory Store backing hub tests.
type fakeStore struct {
	mu sync.Mutex

	users   map[string]store.User
	friends map[string][]string

	// groupMembers maps group id to member ids.
	groupMembers map[string][]string

	messages map[string]store.Message
	nextID   int

	// online records the last SetOnlineStatus flag per user.
	online map[string]bool
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]store.User),
		friends:      make(map[string][]string),
		groupMembers: make(map[string][]string),
		messages:     make(map[string]store.Message),
		online:       make(map[string]bool),
	}
}

func (s *fakeStore) addUser(id string) {
	s.users[id] = store.User{ID: id, Username: id}
}

func (s *fakeStore) addFriends(a, b string) {
	s.friends[a] = append(s.friends[a], b)
	s.friends[b] = append(s.friends[b], a)
}

func (s *fakeStore) addGroupMember(groupID, userID string) {
	s.groupMembers[groupID] = append(s.groupMembers[groupID], userID)
}

func (s *fakeStore) FindUser(ctx context.Context, id string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *fakeStore) CreateMessage(ctx context.Context, params store.CreateMessageParams) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	msg := store.Message{
		ID:         fmt.Sprintf("m%d", s.nextID),
		Content:    params.Content,
		Type:       params.Type,
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		GroupID:    params.GroupID,
		CreatedAt:  time.Now(),
		Sender:     s.users[params.SenderID],
	}
	s.messages[msg.ID] = msg
	return &msg, nil
}

func (s *fakeStore) DeleteMessage(ctx context.Context, messageID, requesterID string) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[messageID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if msg.SenderID != requesterID {
		return nil, store.ErrForbidden
	}
	delete(s.messages, messageID)
	return &msg, nil
}

func (s *fakeStore) IsGroupMember(ctx context.Context, userID, groupID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.groupMembers[groupID], userID), nil
}

func (s *fakeStore) ListGroupIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for groupID, members := range s.groupMembers {
		if slices.Contains(members, userID) {
			ids = append(ids, groupID)
		}
	}
	return ids, nil
}

func (s *fakeStore) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.friends[userID], nil
}

func (s *fakeStore) SetOnlineStatus(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[userID] = online
	return nil
}

func (s *fakeStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// newTestHub wires a hub over fresh fakes.
func newTestHub(opts ...Option) (*Hub, *Registry, *fakeStore) {
	st := newFakeStore()
	reg := NewRegistry()
	return NewHub(reg, st, opts...), reg, st
}

// joinPersonal puts a connection in its own personal room without going
// through the full connect path, keeping presence noise out of tests that
// only need a reachable recipient.
func joinPersonal(reg *Registry, c *fakeConn) {
	reg.Join(c, PersonalRoom(c.UserID()))
}
