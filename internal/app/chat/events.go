/*
Package chat contains the real-time core: room registry, message routing,
presence notification, and call-session negotiation.

This file defines the wire envelope and the typed payloads of every event
exchanged over a connection, in both directions.
*/
package chat

import (
	"encoding/json"
	"time"

	"pulsechat/internal/app/store"
)

// Envelope is the frame format of the bidirectional event channel: one JSON
// object per WebSocket text frame.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Events accepted from clients.
const (
	EventSendMessage   = "send_message"
	EventDeleteMessage = "delete_message"
	EventJoinGroup     = "join_group"
	EventLeaveGroup    = "leave_group"
	EventTypingStart   = "typing_start"
	EventTypingStop    = "typing_stop"
	EventFriendRequest = "friend_request"
	EventCallRequest   = "call_request"
	EventAcceptCall    = "accept_call"
	EventRejectCall    = "reject_call"
	EventEndCall       = "end_call"
	EventWebRTCSignal  = "webrtc_signal"
)

// Events emitted to clients.
const (
	EventNewMessage        = "new_message"
	EventMessageSent       = "message_sent"
	EventMessageDeleted    = "message_deleted"
	EventError             = "error"
	EventJoinedGroup       = "joined_group"
	EventLeftGroup         = "left_group"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventFriendOnline      = "friend_online"
	EventFriendRequested   = "friend_request_received"
	EventIncomingCall      = "call_request"
	EventCallAccepted      = "call_accepted"
	EventCallRejected      = "call_rejected"
	EventCallEnded         = "call_ended"
	EventSignal            = "webrtc_signal"
)

// SendMessagePayload is the body of a send_message command. Exactly one of
// ReceiverID and GroupID must be set.
type SendMessagePayload struct {
	Content    string            `json:"content"`
	Type       store.MessageType `json:"type,omitempty"`
	ReceiverID string            `json:"receiverId,omitempty"`
	GroupID    string            `json:"groupId,omitempty"`
}

// DeleteMessagePayload is the body of a delete_message command.
type DeleteMessagePayload struct {
	MessageID string `json:"messageId"`
}

// GroupPayload addresses a single group, for join/leave commands and their acks.
type GroupPayload struct {
	GroupID string `json:"groupId"`
}

// TypingPayload is the body of typing_start and typing_stop. Same target
// discriminator as messages, but best-effort: bad targets are dropped.
type TypingPayload struct {
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
}

// TypingEventPayload is what the target sees for a typing indicator.
type TypingEventPayload struct {
	UserID     string `json:"userId"`
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
}

// FriendRequestPayload is the body of the friend_request relay command.
type FriendRequestPayload struct {
	ReceiverID string `json:"receiverId"`
}

// FriendRequestedPayload notifies a user of an incoming friend request.
type FriendRequestedPayload struct {
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
}

// PresencePayload is the friend_online delta pushed on connect/disconnect.
type PresencePayload struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// MessageDeletedPayload announces a hard-deleted message to its target.
type MessageDeletedPayload struct {
	MessageID  string `json:"messageId"`
	ReceiverID string `json:"receiverId,omitempty"`
	GroupID    string `json:"groupId,omitempty"`
}

// CallRequestPayload is the body of a call_request command.
type CallRequestPayload struct {
	ReceiverID string   `json:"receiverId"`
	CallType   CallType `json:"callType"`
}

// IncomingCallPayload is delivered to the callee's personal room.
type IncomingCallPayload struct {
	CallID     string   `json:"callId"`
	SenderID   string   `json:"senderId"`
	SenderName string   `json:"senderName"`
	CallType   CallType `json:"callType"`
}

// CallControlPayload is the body of accept_call, reject_call and end_call,
// and of the call_accepted/call_rejected/call_ended notifications.
type CallControlPayload struct {
	CallID string `json:"callId"`
	Reason string `json:"reason,omitempty"`
}

// SignalPayload is the inbound opaque signaling envelope. Signal content is
// never interpreted by the server.
type SignalPayload struct {
	CallID     string          `json:"callId"`
	ReceiverID string          `json:"receiverId"`
	Signal     json.RawMessage `json:"signal"`
}

// SignalEventPayload is the outbound form of a relayed signal.
type SignalEventPayload struct {
	CallID   string          `json:"callId"`
	SenderID string          `json:"senderId"`
	Signal   json.RawMessage `json:"signal"`
}

// ErrorPayload is the structured error event reported back to a sender.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
