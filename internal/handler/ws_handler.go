/*
Package handler provides the HTTP handlers and routing setup for the PulseChat server.

This file contains HandleWebSocket: rate limiting, handshake authentication
(credential token as a query parameter, validated before the upgrade so no
unauthenticated connection ever reaches the registry), and the client
lifecycle.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"pulsechat/internal/app/chat"
	"pulsechat/internal/app/store"
	"pulsechat/internal/pkg/auth/jwt"
	"pulsechat/internal/pkg/errs"
	"pulsechat/internal/pkg/limiter"
	"pulsechat/internal/pkg/logx"
	"pulsechat/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc that upgrades authenticated
// clients to a live event channel.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: rate limit exceeded", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		// The credential rides a query parameter because browser WebSocket
		// clients cannot set an Authorization header on the handshake.
		token := r.URL.Query().Get("token")
		if token == "" {
			logx.Warn("WebSocket connection rejected: missing token", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenMissing))
			return
		}

		payload, err := jwt.ParseToken(token, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket connection rejected: invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrTokenInvalid))
			return
		}

		user, err := deps.Store.FindUser(r.Context(), payload.UserID)
		if errors.Is(err, store.ErrNotFound) {
			logx.Warn("WebSocket connection rejected: unknown identity", "user_id", payload.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrIdentityUnknown))
			return
		}
		if err != nil {
			logx.Error(err, "WebSocket connection rejected: identity lookup failed", "user_id", payload.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrStorage))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn, *user)

		go client.WritePump()

		if customErr := deps.Hub.HandleConnect(r.Context(), client); customErr != nil {
			client.SendError(customErr)
			conn.Close()
			return
		}

		logx.Info("WebSocket connection established", "user_id", user.ID)

		client.ReadPump()
	}
}
