/*
Package ws implements the WebSocket transport of the chat coordinator.

This file defines the Conn struct, representing one active WebSocket
connection. It runs the two communication loops (ReadPump and WritePump),
handles heartbeats, and feeds decoded envelopes into the hub's dispatch
queue.
*/
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"parlor/internal/pkg/logx"
	"parlor/internal/pkg/randx"
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

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// Conn represents one active WebSocket connection with its opaque identity.
type Conn struct {
	// id is the opaque connection identifier, minted at upgrade time. It is
	// the identity all room state is keyed on.
	id string

	// hub owning this connection.
	hub *Hub

	// underlying WebSocket connection object.
	sock *websocket.Conn

	// send queues frames waiting to be written to the client.
	send chan []byte

	// closeOnce guards the send channel against double close.
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// newConn wraps an upgraded WebSocket connection and assigns it an identity.
func newConn(hub *Hub, sock *websocket.Conn) *Conn {
	id := randx.ConnectionID()

	return &Conn{
		id:   id,
		hub:  hub,
		sock: sock,
		send: make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().
			Str("conn_id", id).
			Logger(),
	}
}

// ID returns the opaque connection identifier.
func (c *Conn) ID() string {
	return c.id
}

// ReadPump reads frames from the WebSocket connection, decodes them into
// envelopes, and enqueues them on the hub. It handles heartbeats (Pong) and
// enqueues the disconnect event when the connection ends, however it ends.
func (c *Conn) ReadPump() {
	defer func() {
		c.hub.enqueue(inbound{kind: inboundDisconnect, conn: c})

		if err := c.sock.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in ReadPump")
		}
	}()

	c.sock.SetReadLimit(maxMessageSize)

	if err := c.sock.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(frameBytes, &env); err != nil {
			c.logger.Warn().Err(err).
				Bytes("frame_bytes", frameBytes).
				Msg("Client sent invalid JSON")
			continue
		}

		if env.Event == "" {
			c.logger.Warn().Msg("Client sent envelope without an event name")
			continue
		}

		c.hub.enqueue(inbound{kind: inboundFrame, conn: c, env: env})
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive with periodic pings.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.sock.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
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

// writeQueuedFrame writes one frame pulled from the send queue. A closed
// queue produces a close message. Returns false when the loop should stop.
func (c *Conn) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.sock.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.sock.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.sock.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends the heartbeat ping. Returns false on write failure.
func (c *Conn) writePing() bool {
	if err := c.sock.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// queue places a frame on the send channel without blocking the dispatch
// loop. A full queue drops the frame; a slow client loses pushes rather
// than stalling every other room.
func (c *Conn) queue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Connection send queue full, dropping frame")
	}
}

// closeSend closes the send channel exactly once, letting WritePump emit
// the close message and exit.
func (c *Conn) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
