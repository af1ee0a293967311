/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file contains the HandleWebSocket function, which rate-limits and
upgrades incoming connections and hands them to the hub. All chat semantics
live behind the upgrade; this handler only mints the connection.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"parlor/internal/pkg/errs"
	"parlor/internal/pkg/limiter"
	"parlor/internal/pkg/logx"
	"parlor/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the request to a
// WebSocket connection and registers it with the hub. The call blocks in the
// connection's read loop until the client disconnects.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		sock, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		conn := deps.Hub.NewConn(sock)

		logx.Info("WebSocket connection established", "conn_id", conn.ID())

		deps.Hub.Register(conn)
	}
}
