package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pulsechat/internal/app/chat"
	"pulsechat/internal/app/store"
	"pulsechat/internal/configs"
	"pulsechat/internal/pkg/auth/jwt"
	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/limiter"
	"pulsechat/internal/pkg/resp"
)

const wsTestSecret = "ws-handler-test-secret"

// memStore is a minimal in-memory Store for handler tests.
type memStore struct {
	users map[string]store.User
}

var _ store.Store = (*memStore)(nil)

func newMemStore(userIDs ...string) *memStore {
	s := &memStore{users: make(map[string]store.User)}
	for _, id := range userIDs {
		s.users[id] = store.User{ID: id, Username: id}
	}
	return s
}

func (s *memStore) FindUser(ctx context.Context, id string) (*store.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) CreateMessage(ctx context.Context, params store.CreateMessageParams) (*store.Message, error) {
	return &store.Message{
		ID:         "m1",
		Content:    params.Content,
		Type:       params.Type,
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		GroupID:    params.GroupID,
		CreatedAt:  time.Now(),
		Sender:     s.users[params.SenderID],
	}, nil
}

func (s *memStore) DeleteMessage(ctx context.Context, messageID, requesterID string) (*store.Message, error) {
	return nil, store.ErrNotFound
}

func (s *memStore) IsGroupMember(ctx context.Context, userID, groupID string) (bool, error) {
	return false, nil
}

func (s *memStore) ListGroupIDs(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func (s *memStore) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func (s *memStore) SetOnlineStatus(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	return nil
}

func newWSHandler(t *testing.T, st store.Store) http.HandlerFunc {
	t.Helper()

	deps := &AppDeps{
		Hub:    chat.NewHub(chat.NewRegistry(), st),
		Store:  st,
		Config: &configs.AppConfig{JWTSecret: wsTestSecret},
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return HandleWebSocket(upgrader, limiter.NewIPRateLimiter(100, 100), deps)
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()

	var body resp.JSONResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func TestHandshakeRejectsMissingToken(t *testing.T) {
	h := newWSHandler(t, newMemStore("alice"))

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if body := decodeErrorBody(t, w); body.Code != errs.ErrTokenMissing {
		t.Errorf("body code = %d, want %d", body.Code, errs.ErrTokenMissing)
	}
}

func TestHandshakeRejectsInvalidToken(t *testing.T) {
	h := newWSHandler(t, newMemStore("alice"))

	forged, err := jwt.GenerateToken("alice", "some-other-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+forged, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if body := decodeErrorBody(t, w); body.Code != errs.ErrTokenInvalid {
		t.Errorf("body code = %d, want %d", body.Code, errs.ErrTokenInvalid)
	}
}

func TestHandshakeRejectsUnknownIdentity(t *testing.T) {
	h := newWSHandler(t, newMemStore("alice"))

	token, err := jwt.GenerateToken("ghost", wsTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if body := decodeErrorBody(t, w); body.Code != errs.ErrIdentityUnknown {
		t.Errorf("body code = %d, want %d", body.Code, errs.ErrIdentityUnknown)
	}
}

func TestWebSocketSendMessageRoundTrip(t *testing.T) {
	h := newWSHandler(t, newMemStore("alice", "bob"))

	srv := httptest.NewServer(h)
	defer srv.Close()

	token, err := jwt.GenerateToken("alice", wsTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	frame := `{"event":"send_message","payload":{"content":"hello","receiverId":"bob"}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var env chat.Envelope
	if err := json.Unmarshal(reply, &env); err != nil {
		t.Fatalf("decoding reply envelope: %v", err)
	}
	if env.Event != chat.EventMessageSent {
		t.Fatalf("reply event = %q, want %q", env.Event, chat.EventMessageSent)
	}

	var msg store.Message
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		t.Fatalf("decoding reply payload: %v", err)
	}
	if msg.Content != "hello" || msg.SenderID != "alice" || msg.ReceiverID != "bob" {
		t.Errorf("confirmed message = %+v", msg)
	}
}

func TestWebSocketReportsUnknownEvent(t *testing.T) {
	h := newWSHandler(t, newMemStore("alice"))

	srv := httptest.NewServer(h)
	defer srv.Close()

	token, err := jwt.GenerateToken("alice", wsTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"warp_drive"}`)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var env chat.Envelope
	if err := json.Unmarshal(reply, &env); err != nil {
		t.Fatalf("decoding reply envelope: %v", err)
	}
	if env.Event != chat.EventError {
		t.Fatalf("reply event = %q, want %q", env.Event, chat.EventError)
	}
}
