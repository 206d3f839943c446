/*
Package chat contains the real-time core: room registry, message routing,
presence notification, and call-session negotiation.

This file implements the call session negotiator and the signaling relay.
A call session lives between exactly two identities, keyed by a
server-allocated call id, and walks Requested -> Accepted -> terminal
(Rejected/Ended). Terminal transitions discard all state immediately, after
which any event referencing the call id is dropped.
*/
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"pulsechat/internal/app/store"
	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/randx"
)

// CallType is the media kind of a call attempt.
type CallType string

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

// Valid reports whether t is a supported call type.
func (t CallType) Valid() bool {
	return t == CallAudio || t == CallVideo
}

// Reasons attached to server-initiated call_ended notifications.
const (
	EndReasonTimeout      = "timeout"
	EndReasonDisconnected = "disconnected"
)

type callState int

const (
	callRinging callState = iota
	callActive
)

// callSession is the negotiator's state for one call attempt.
type callSession struct {
	id       string
	callerID string
	calleeID string
	callType CallType
	state    callState

	// ringTimer expires an unanswered request; stopped on any transition out
	// of the ringing state.
	ringTimer *time.Timer
}

// otherParty returns the peer of userID in this call, or false when userID is
// not a party at all.
func (s *callSession) otherParty(userID string) (string, bool) {
	switch userID {
	case s.callerID:
		return s.calleeID, true
	case s.calleeID:
		return s.callerID, true
	}
	return "", false
}

// callTable holds every live call session. Each identity may be a party to at
// most one live call at a time; a second overlapping request is refused as
// busy rather than silently shadowing the first.
type callTable struct {
	mu       sync.Mutex
	sessions map[string]*callSession

	// byUser maps each party to its live call id.
	byUser map[string]string
}

func newCallTable() *callTable {
	return &callTable{
		sessions: make(map[string]*callSession),
		byUser:   make(map[string]string),
	}
}

// insert registers a new ringing session unless either party is already busy.
func (t *callTable) insert(s *callSession) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.byUser[s.callerID]; busy {
		return false
	}
	if _, busy := t.byUser[s.calleeID]; busy {
		return false
	}

	t.sessions[s.id] = s
	t.byUser[s.callerID] = s.id
	t.byUser[s.calleeID] = s.id
	return true
}

// removeLocked discards a session and frees both parties. Caller holds t.mu.
func (t *callTable) removeLocked(s *callSession) {
	if s.ringTimer != nil {
		s.ringTimer.Stop()
	}
	delete(t.sessions, s.id)
	delete(t.byUser, s.callerID)
	delete(t.byUser, s.calleeID)
}

// clear discards every live session, stopping their timers.
func (t *callTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.sessions {
		if s.ringTimer != nil {
			s.ringTimer.Stop()
		}
	}
	t.sessions = make(map[string]*callSession)
	t.byUser = make(map[string]string)
}

// RequestCall opens a new call session and rings the callee's personal room.
// The callee must exist and neither party may already be on a call. An
// unanswered request expires server-side after the hub's ring timeout.
func (h *Hub) RequestCall(ctx context.Context, c Conn, p CallRequestPayload) *errs.CustomError {
	if !p.CallType.Valid() {
		return errs.NewError(errs.ErrInvalidCallType)
	}
	if p.ReceiverID == "" || p.ReceiverID == c.UserID() {
		return errs.NewError(errs.ErrInvalidParams)
	}

	_, err := h.store.FindUser(ctx, p.ReceiverID)
	if errors.Is(err, store.ErrNotFound) {
		return errs.NewError(errs.ErrUserNotFound)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("callee_id", p.ReceiverID).Msg("Callee lookup failed")
		return errs.NewError(errs.ErrStorage)
	}

	session := &callSession{
		id:       randx.CallID(),
		callerID: c.UserID(),
		calleeID: p.ReceiverID,
		callType: p.CallType,
		state:    callRinging,
	}

	if !h.calls.insert(session) {
		return errs.NewError(errs.ErrCalleeBusy)
	}

	session.ringTimer = time.AfterFunc(h.ringTimeout, func() {
		h.expireCall(session.id)
	})

	h.registry.SendToUser(session.calleeID, EventIncomingCall, IncomingCallPayload{
		CallID:     session.id,
		SenderID:   session.callerID,
		SenderName: c.User().DisplayName(),
		CallType:   session.callType,
	})

	h.logger.Info().
		Str("call_id", session.id).
		Str("caller_id", session.callerID).
		Str("callee_id", session.calleeID).
		Str("call_type", string(session.callType)).
		Msg("Call requested")

	return nil
}

// AcceptCall transitions a ringing call to active and notifies the caller,
// who is expected to begin the signaling offer. Only the callee may accept.
// Unknown or already-terminal call ids are ignored without any delivery.
func (h *Hub) AcceptCall(ctx context.Context, c Conn, p CallControlPayload) *errs.CustomError {
	h.calls.mu.Lock()

	session, ok := h.calls.sessions[p.CallID]
	if !ok || session.state != callRinging {
		h.calls.mu.Unlock()
		return nil
	}

	if c.UserID() != session.calleeID {
		h.calls.mu.Unlock()
		return errs.NewError(errs.ErrNotCallParticipant)
	}

	session.state = callActive
	if session.ringTimer != nil {
		session.ringTimer.Stop()
	}
	callerID := session.callerID
	h.calls.mu.Unlock()

	h.registry.SendToUser(callerID, EventCallAccepted, CallControlPayload{CallID: p.CallID})

	h.logger.Info().Str("call_id", p.CallID).Msg("Call accepted")

	return nil
}

// RejectCall terminates a ringing call from the callee side, discarding all
// state. The caller is notified with the optional reason. Unknown or terminal
// call ids are ignored.
func (h *Hub) RejectCall(ctx context.Context, c Conn, p CallControlPayload) *errs.CustomError {
	h.calls.mu.Lock()

	session, ok := h.calls.sessions[p.CallID]
	if !ok || session.state != callRinging {
		h.calls.mu.Unlock()
		return nil
	}

	if c.UserID() != session.calleeID {
		h.calls.mu.Unlock()
		return errs.NewError(errs.ErrNotCallParticipant)
	}

	h.calls.removeLocked(session)
	callerID := session.callerID
	h.calls.mu.Unlock()

	h.registry.SendToUser(callerID, EventCallRejected, CallControlPayload{
		CallID: p.CallID,
		Reason: p.Reason,
	})

	h.logger.Info().Str("call_id", p.CallID).Msg("Call rejected")

	return nil
}

// EndCall terminates a live call from either party, in any live state, and
// notifies the other party. Unknown or terminal call ids are ignored, which
// makes concurrent hang-ups from both sides idempotent.
func (h *Hub) EndCall(ctx context.Context, c Conn, p CallControlPayload) *errs.CustomError {
	h.calls.mu.Lock()

	session, ok := h.calls.sessions[p.CallID]
	if !ok {
		h.calls.mu.Unlock()
		return nil
	}

	peerID, isParty := session.otherParty(c.UserID())
	if !isParty {
		h.calls.mu.Unlock()
		return errs.NewError(errs.ErrNotCallParticipant)
	}

	h.calls.removeLocked(session)
	h.calls.mu.Unlock()

	h.registry.SendToUser(peerID, EventCallEnded, CallControlPayload{CallID: p.CallID})

	h.logger.Info().Str("call_id", p.CallID).Msg("Call ended")

	return nil
}

// RelaySignal forwards an opaque signaling envelope to the other party of a
// live call. The signal content is never inspected. Envelopes referencing an
// unknown or terminal call id, sent by a non-party, or addressed to anyone
// but the peer are dropped without delivery.
func (h *Hub) RelaySignal(ctx context.Context, c Conn, p SignalPayload) {
	h.calls.mu.Lock()

	session, ok := h.calls.sessions[p.CallID]
	if !ok {
		h.calls.mu.Unlock()
		return
	}

	peerID, isParty := session.otherParty(c.UserID())
	if !isParty || p.ReceiverID != peerID {
		h.calls.mu.Unlock()
		h.logger.Warn().
			Str("call_id", p.CallID).
			Str("sender_id", c.UserID()).
			Msg("Dropped signal addressed outside the call's parties")
		return
	}
	h.calls.mu.Unlock()

	h.registry.SendToUser(peerID, EventSignal, SignalEventPayload{
		CallID:   p.CallID,
		SenderID: c.UserID(),
		Signal:   p.Signal,
	})
}

// expireCall puts a ring timeout into effect: if the call is still ringing,
// its state is discarded and both parties are told it ended.
func (h *Hub) expireCall(callID string) {
	h.calls.mu.Lock()

	session, ok := h.calls.sessions[callID]
	if !ok || session.state != callRinging {
		h.calls.mu.Unlock()
		return
	}

	h.calls.removeLocked(session)
	callerID, calleeID := session.callerID, session.calleeID
	h.calls.mu.Unlock()

	ended := CallControlPayload{CallID: callID, Reason: EndReasonTimeout}
	h.registry.SendToUser(callerID, EventCallEnded, ended)
	h.registry.SendToUser(calleeID, EventCallEnded, ended)

	h.logger.Info().Str("call_id", callID).Msg("Unanswered call expired")
}

// endCallsFor tears down the live call a disconnecting identity is party to,
// if any, notifying the peer.
func (h *Hub) endCallsFor(userID string) {
	h.calls.mu.Lock()

	callID, ok := h.calls.byUser[userID]
	if !ok {
		h.calls.mu.Unlock()
		return
	}

	session := h.calls.sessions[callID]
	peerID, _ := session.otherParty(userID)
	h.calls.removeLocked(session)
	h.calls.mu.Unlock()

	h.registry.SendToUser(peerID, EventCallEnded, CallControlPayload{
		CallID: callID,
		Reason: EndReasonDisconnected,
	})

	h.logger.Info().Str("call_id", callID).Str("user_id", userID).Msg("Call ended by disconnect")
}
