/*
Package chat contains the real-time core: room registry, message routing,
presence notification, and call-session negotiation.

This file defines the Client struct, the WebSocket-backed implementation of
Conn. It owns the connection's read/write pumps, heartbeat, and the dispatch
of inbound envelopes to hub handlers.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pulsechat/internal/app/store"
	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// per-event deadline for handlers that touch persistence.
	handlerTimeout = 10 * time.Second

	// send channel capacity per connection.
	sendQueueSize = 256
)

// Client is one live WebSocket session bound to an authenticated user. It
// implements Conn; the hub never sees the transport underneath.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user store.User

	// send queues outbound frames for the write pump.
	send chan []byte

	closeOnce sync.Once

	logger zerolog.Logger
}

var _ Conn = (*Client)(nil)

// NewClient constructs a Client for an already-authenticated connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, user store.User) *Client {
	clientLogger := logx.Logger().With().
		Str("user_id", user.ID).
		Logger()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		user:   user,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// UserID returns the id of the identity the connection authenticated as.
func (c *Client) UserID() string {
	return c.user.ID
}

// User returns the identity summary cached at connection time.
func (c *Client) User() store.User {
	return c.user
}

// Enqueue marshals an event envelope onto the send queue. Returns false when
// the frame was dropped because the queue is full or the connection closed.
func (c *Client) Enqueue(event string, payload any) bool {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event payload")
		return false
	}

	frame, err := json.Marshal(Envelope{Event: event, Payload: payloadBytes})
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event envelope")
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		c.logger.Warn().Str("event", event).Int("queue_len", len(c.send)).Msg("Client send queue full, dropping frame")
		return false
	}
}

// SendError reports a structured error event back to this connection only.
func (c *Client) SendError(customErr *errs.CustomError) {
	c.Enqueue(EventError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// ReadPump reads frames from the WebSocket connection and dispatches them to
// the hub. It handles heartbeats (Pong) and performs disconnect cleanup when
// the loop exits.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.dispatch(frame)
	}
}

// cleanupOnDisconnect runs exactly once when the read pump terminates: hub
// teardown (rooms, presence, calls), then transport close.
func (c *Client) cleanupOnDisconnect() {
	c.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		c.hub.HandleDisconnect(ctx, c)

		close(c.send)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error")
		}
	})
}

// dispatch routes one inbound envelope to its hub handler. Every handler
// failure is reported back to this connection only, as an error event.
func (c *Client) dispatch(frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON frame")
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	var customErr *errs.CustomError

	switch env.Event {
	case EventSendMessage:
		var p SendMessagePayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.SendMessage(ctx, c, p)

	case EventDeleteMessage:
		var p DeleteMessagePayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.DeleteMessage(ctx, c, p)

	case EventJoinGroup:
		var p GroupPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.JoinGroup(ctx, c, p)

	case EventLeaveGroup:
		var p GroupPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.LeaveGroup(ctx, c, p)

	case EventTypingStart, EventTypingStop:
		var p TypingPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		c.hub.Typing(ctx, c, env.Event == EventTypingStart, p)

	case EventFriendRequest:
		var p FriendRequestPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		c.hub.NotifyFriendRequest(ctx, c, p)

	case EventCallRequest:
		var p CallRequestPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.RequestCall(ctx, c, p)

	case EventAcceptCall:
		var p CallControlPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.AcceptCall(ctx, c, p)

	case EventRejectCall:
		var p CallControlPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.RejectCall(ctx, c, p)

	case EventEndCall:
		var p CallControlPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		customErr = c.hub.EndCall(ctx, c, p)

	case EventWebRTCSignal:
		var p SignalPayload
		if !c.bind(env.Payload, &p) {
			return
		}
		c.hub.RelaySignal(ctx, c, p)

	default:
		c.logger.Warn().Str("event", env.Event).Msg("Client sent unsupported event")
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if customErr != nil {
		c.SendError(customErr)
	}
}

// bind unmarshals an event payload, reporting malformed input to the sender.
func (c *Client) bind(raw json.RawMessage, dst any) bool {
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid event payload")
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return false
	}
	return true
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send queue. Returns false
// when the write pump should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		// send channel closed by disconnect cleanup
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends the periodic heartbeat ping. Returns false on write failure.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
