package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"pulsechat/internal/app/store"
	"pulsechat/internal/pkg/logx"
)

// Conn is one live transport session bound to a single authenticated user.
// The registry and hub only see this interface; the WebSocket client
// implements it, and tests substitute recording fakes.
type Conn interface {
	// UserID returns the id of the identity the connection authenticated as.
	UserID() string

	// User returns the identity summary cached at connection time.
	User() store.User

	// Enqueue queues an event for delivery on this connection. Delivery is
	// best-effort: false means the frame was dropped (queue full or closed).
	Enqueue(event string, payload any) bool
}

// Registry is the process-wide table mapping room names to the connections
// currently joined. It is constructed once at startup and injected into every
// component that fans out events; membership is connection-scoped.
type Registry struct {
	mu sync.RWMutex

	// rooms maps room name to the set of member connections.
	rooms map[string]map[Conn]struct{}

	// memberships maps each connection to the rooms it joined, so disconnect
	// can drop all membership in one pass.
	memberships map[Conn]map[string]struct{}

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]map[Conn]struct{}),
		memberships: make(map[Conn]map[string]struct{}),
		logger:      logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// Join adds the connection to the named room.
func (reg *Registry) Join(c Conn, room string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	members, ok := reg.rooms[room]
	if !ok {
		members = make(map[Conn]struct{})
		reg.rooms[room] = members
	}
	members[c] = struct{}{}

	joined, ok := reg.memberships[c]
	if !ok {
		joined = make(map[string]struct{})
		reg.memberships[c] = joined
	}
	joined[room] = struct{}{}
}

// Leave removes the connection from the named room. Empty rooms are dropped
// from the table.
func (reg *Registry) Leave(c Conn, room string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.leaveLocked(c, room)
}

func (reg *Registry) leaveLocked(c Conn, room string) {
	if members, ok := reg.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(reg.rooms, room)
		}
	}

	if joined, ok := reg.memberships[c]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(reg.memberships, c)
		}
	}
}

// Remove drops the connection from every room it joined. Called exactly once
// when a connection closes.
func (reg *Registry) Remove(c Conn) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for room := range reg.memberships[c] {
		reg.leaveLocked(c, room)
	}
	delete(reg.memberships, c)
}

// Rooms returns the names of the rooms the connection is currently joined to.
func (reg *Registry) Rooms(c Conn) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	joined := reg.memberships[c]
	rooms := make([]string, 0, len(joined))
	for room := range joined {
		rooms = append(rooms, room)
	}
	return rooms
}

// Broadcast delivers an event to every connection currently joined to the
// room, except exclude (which may be nil). Connections that join later see
// nothing; connections whose queue is full simply miss the frame.
func (reg *Registry) Broadcast(room, event string, payload any, exclude Conn) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for c := range reg.rooms[room] {
		if c == exclude {
			continue
		}
		if !c.Enqueue(event, payload) {
			reg.logger.Warn().
				Str("room", room).
				Str("event", event).
				Str("user_id", c.UserID()).
				Msg("Dropped frame for slow connection")
		}
	}
}

// SendToUser delivers an event to every live connection of one identity via
// its personal room. A user with no live connection receives nothing.
func (reg *Registry) SendToUser(userID, event string, payload any) {
	reg.Broadcast(PersonalRoom(userID), event, payload, nil)
}
