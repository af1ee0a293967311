package handler

import (
	"parlor/internal/app/ws"
	"parlor/internal/configs"
)

// AppDeps bundles the dependencies the HTTP layer needs.
type AppDeps struct {
	Hub    *ws.Hub
	Config *configs.AppConfig
}
