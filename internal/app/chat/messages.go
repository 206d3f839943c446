package chat

import (
	"context"
	"errors"

	"pulsechat/internal/app/store"
	"pulsechat/internal/pkg/errs"
)

// SendMessage validates, persists and fans out a chat message. Validation
// order: content, type, target shape, then authorization/existence of the
// target. The first failure wins and nothing is persisted or broadcast on any
// failure path. Persistence happens-before fan-out.
func (h *Hub) SendMessage(ctx context.Context, c Conn, p SendMessagePayload) *errs.CustomError {
	if p.Content == "" {
		return errs.NewError(errs.ErrEmptyContent)
	}

	msgType := p.Type
	if msgType == "" {
		msgType = store.MessageText
	}
	if !msgType.Valid() {
		return errs.NewError(errs.ErrInvalidMessageType)
	}

	target, customErr := NewTarget(p.ReceiverID, p.GroupID)
	if customErr != nil {
		return customErr
	}

	if target.IsGroup() {
		member, err := h.store.IsGroupMember(ctx, c.UserID(), target.GroupID())
		if err != nil {
			h.logger.Error().Err(err).Str("group_id", target.GroupID()).Msg("Group membership lookup failed")
			return errs.NewError(errs.ErrStorage)
		}
		if !member {
			return errs.NewError(errs.ErrNotGroupMember)
		}
	} else {
		_, err := h.store.FindUser(ctx, target.ReceiverID())
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrUserNotFound)
		}
		if err != nil {
			h.logger.Error().Err(err).Str("receiver_id", target.ReceiverID()).Msg("Recipient lookup failed")
			return errs.NewError(errs.ErrStorage)
		}
	}

	msg, err := h.store.CreateMessage(ctx, store.CreateMessageParams{
		SenderID:   c.UserID(),
		Content:    p.Content,
		Type:       msgType,
		ReceiverID: target.ReceiverID(),
		GroupID:    target.GroupID(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("sender_id", c.UserID()).Msg("Failed to persist message")
		return errs.NewError(errs.ErrStorage)
	}

	// The sender's own connection is excluded from the fan-out; it gets the
	// authoritative copy through message_sent instead.
	h.registry.Broadcast(target.Room(), EventNewMessage, msg, c)

	c.Enqueue(EventMessageSent, msg)

	return nil
}

// DeleteMessage hard-deletes a message on behalf of its original sender. The
// deletion is announced to the message's target room and confirmed to the
// requester; stored media backing IMAGE/FILE messages is removed best-effort.
func (h *Hub) DeleteMessage(ctx context.Context, c Conn, p DeleteMessagePayload) *errs.CustomError {
	if p.MessageID == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	msg, err := h.store.DeleteMessage(ctx, p.MessageID, c.UserID())
	if errors.Is(err, store.ErrNotFound) {
		return errs.NewError(errs.ErrMessageNotFound)
	}
	if errors.Is(err, store.ErrForbidden) {
		return errs.NewError(errs.ErrNotMessageSender)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", p.MessageID).Msg("Failed to delete message")
		return errs.NewError(errs.ErrStorage)
	}

	if h.media != nil && msg.Type != store.MessageText {
		// Media message content is the object key.
		if err := h.media.Delete(ctx, msg.Content); err != nil {
			h.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Failed to delete stored media for message")
		}
	}

	deleted := MessageDeletedPayload{
		MessageID:  msg.ID,
		ReceiverID: msg.ReceiverID,
		GroupID:    msg.GroupID,
	}

	if target, targetErr := NewTarget(msg.ReceiverID, msg.GroupID); targetErr == nil {
		h.registry.Broadcast(target.Room(), EventMessageDeleted, deleted, c)
	}

	c.Enqueue(EventMessageDeleted, deleted)

	return nil
}
