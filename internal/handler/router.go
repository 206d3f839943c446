/*
Package handler provides the HTTP handlers and routing setup for the PulseChat server.

This file defines the main Router, applying logging, CORS and per-IP rate
limiting before delegating to the WebSocket and presign handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"pulsechat/internal/pkg/auth/jwt"
	"pulsechat/internal/pkg/limiter"
	"pulsechat/internal/pkg/logx"
	"pulsechat/internal/pkg/resp"
)

const (
	// ConnectRate limits WebSocket handshakes per IP; generous enough for
	// reconnect storms, tight enough to blunt abuse.
	ConnectRate  = 0.5
	ConnectBurst = 5

	// PresignRate limits presign requests per IP.
	PresignRate  = 1.0
	PresignBurst = 10
)

// Router sets up the main chi routing table: global middleware, the health
// endpoint, the presign API, and the WebSocket entry point.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)
	presignLimiter := limiter.NewIPRateLimiter(rate.Limit(PresignRate), PresignBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: origin not allowed", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "PulseChat Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.RequireAuth(deps.Config.JWTSecret))

		api.Route("/file", func(file chi.Router) {
			file.Use(presignLimiter.Middleware)
			file.Post("/presign-upload", HandlePresignUpload(deps))
			file.Get("/presign-download", HandlePresignDownload(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
