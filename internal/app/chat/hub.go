/*
Package chat contains the real-time core: room registry, message routing,
presence notification, and call-session negotiation.

This file defines the Hub, the single entry point for every inbound command.
Each handler validates fully before any side effect, so a failed command is
only ever visible to its sender.
*/
package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pulsechat/internal/app/storage"
	"pulsechat/internal/app/store"
	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/logx"
)

// DefaultRingTimeout bounds how long an unanswered call request stays live
// when no explicit timeout is configured.
const DefaultRingTimeout = 60 * time.Second

// Hub coordinates the real-time core. It owns no durable state: rooms live in
// the injected Registry, call sessions in the in-process call table, and
// everything else in the Store.
type Hub struct {
	registry *Registry
	store    store.Store

	// media deletes stored objects when media messages are hard-deleted.
	// Optional; nil skips object cleanup.
	media storage.Service

	calls       *callTable
	ringTimeout time.Duration

	logger zerolog.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithMediaStorage wires object storage cleanup for deleted media messages.
func WithMediaStorage(media storage.Service) Option {
	return func(h *Hub) { h.media = media }
}

// WithRingTimeout overrides how long an unanswered call request stays ringing.
func WithRingTimeout(d time.Duration) Option {
	return func(h *Hub) { h.ringTimeout = d }
}

// NewHub constructs a Hub around the injected registry and store.
func NewHub(registry *Registry, st store.Store, opts ...Option) *Hub {
	h := &Hub{
		registry:    registry,
		store:       st,
		calls:       newCallTable(),
		ringTimeout: DefaultRingTimeout,
		logger:      logx.Logger().With().Str("component", "hub").Logger(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Registry exposes the room registry, mainly so transports can verify wiring.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// HandleConnect admits an authenticated connection: marks the identity
// online, joins the personal room and every group room, and pushes online
// deltas to friends. Room joins happen before the store calls so a failure
// there cannot leave a half-registered connection.
func (h *Hub) HandleConnect(ctx context.Context, c Conn) *errs.CustomError {
	userID := c.UserID()

	h.registry.Join(c, PersonalRoom(userID))

	groupIDs, err := h.store.ListGroupIDs(ctx, userID)
	if err != nil {
		h.registry.Remove(c)
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Connect failed: could not list groups")
		return errs.NewError(errs.ErrStorage)
	}

	for _, groupID := range groupIDs {
		h.registry.Join(c, GroupRoom(groupID))
	}

	if err := h.store.SetOnlineStatus(ctx, userID, true, time.Now()); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to mark user online")
	}

	h.notifyFriends(ctx, userID, true)

	h.logger.Info().
		Str("user_id", userID).
		Int("group_rooms", len(groupIDs)).
		Msg("Connection admitted")

	return nil
}

// HandleDisconnect tears a connection down: membership is dropped, live calls
// involving the identity are ended, the identity is marked offline, and
// friends receive offline deltas. Safe to call exactly once per connection.
func (h *Hub) HandleDisconnect(ctx context.Context, c Conn) {
	userID := c.UserID()

	h.registry.Remove(c)

	h.endCallsFor(userID)

	if err := h.store.SetOnlineStatus(ctx, userID, false, time.Now()); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to mark user offline")
	}

	h.notifyFriends(ctx, userID, false)

	h.logger.Info().Str("user_id", userID).Msg("Connection removed")
}

// JoinGroup joins the connection to a group room after verifying current
// membership against the store.
func (h *Hub) JoinGroup(ctx context.Context, c Conn, p GroupPayload) *errs.CustomError {
	if p.GroupID == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	member, err := h.store.IsGroupMember(ctx, c.UserID(), p.GroupID)
	if err != nil {
		h.logger.Error().Err(err).Str("group_id", p.GroupID).Msg("Group membership lookup failed")
		return errs.NewError(errs.ErrStorage)
	}
	if !member {
		return errs.NewError(errs.ErrNotGroupMember)
	}

	h.registry.Join(c, GroupRoom(p.GroupID))
	c.Enqueue(EventJoinedGroup, GroupPayload{GroupID: p.GroupID})

	return nil
}

// LeaveGroup drops the connection from a group room. Leaving a room you are
// not in is a no-op, ack'd all the same.
func (h *Hub) LeaveGroup(ctx context.Context, c Conn, p GroupPayload) *errs.CustomError {
	if p.GroupID == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	h.registry.Leave(c, GroupRoom(p.GroupID))
	c.Enqueue(EventLeftGroup, GroupPayload{GroupID: p.GroupID})

	return nil
}

// Shutdown discards all live call sessions, stopping their ring timers.
func (h *Hub) Shutdown() {
	h.calls.clear()
	h.logger.Info().Msg("Hub shutdown complete")
}
