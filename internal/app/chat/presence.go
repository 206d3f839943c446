package chat

import (
	"context"
	"time"
)

// notifyFriends pushes an online/offline delta for userID to each friend's
// personal room. Fire-and-forget: friends without a live connection receive
// nothing, and a failed friend lookup is logged but never surfaces to the
// user, since presence is best-effort.
func (h *Hub) notifyFriends(ctx context.Context, userID string, online bool) {
	friendIDs, err := h.store.ListFriendIDs(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("Skipping presence fan-out: friend lookup failed")
		return
	}

	payload := PresencePayload{
		UserID:   userID,
		IsOnline: online,
	}

	for _, friendID := range friendIDs {
		h.registry.SendToUser(friendID, EventFriendOnline, payload)
	}
}

// NotifyFriendRequest relays a friend-request notification to the receiver's
// personal room. The durable friend-request workflow lives with the CRUD
// collaborator; this is only the real-time nudge.
func (h *Hub) NotifyFriendRequest(ctx context.Context, c Conn, p FriendRequestPayload) {
	if p.ReceiverID == "" {
		return
	}

	h.registry.SendToUser(p.ReceiverID, EventFriendRequested, FriendRequestedPayload{
		SenderID:  c.UserID(),
		Timestamp: time.Now(),
	})
}
