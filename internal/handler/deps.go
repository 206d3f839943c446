package handler

import (
	"pulsechat/internal/app/chat"
	"pulsechat/internal/app/storage"
	"pulsechat/internal/app/store"
	"pulsechat/internal/configs"
)

// AppDeps bundles the services handlers depend on, wired once in main.
type AppDeps struct {
	Hub            *chat.Hub
	Store          store.Store
	StorageService storage.Service
	Config         *configs.AppConfig
}
