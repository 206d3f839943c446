package chat

import "context"

// Typing relays an ephemeral typing indicator to its target, tagged with the
// sender's identity. No persistence, no validation beyond target shape:
// indicators are non-critical, so malformed or dead targets are dropped
// silently. The server synthesizes no typing_stop; clients expire the state
// locally.
func (h *Hub) Typing(ctx context.Context, c Conn, started bool, p TypingPayload) {
	target, err := NewTarget(p.ReceiverID, p.GroupID)
	if err != nil {
		return
	}

	event := EventUserStoppedTyping
	if started {
		event = EventUserTyping
	}

	payload := TypingEventPayload{
		UserID:     c.UserID(),
		ReceiverID: p.ReceiverID,
		GroupID:    p.GroupID,
	}

	h.registry.Broadcast(target.Room(), event, payload, c)
}
