/*
Package ws implements the WebSocket transport of the chat coordinator.

This file defines the Hub, which owns every live connection and the group
subscription table. Its Run loop consumes one inbound event at a time from
all connections and hands it to the session dispatcher, so every action in
the system is applied serially: no two handlers ever run concurrently over
registry state. The Hub is also the session.Transport implementation.
*/
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"parlor/internal/app/session"
	"parlor/internal/pkg/logx"
)

const inboundQueueSize = 1024

// Dispatcher is the slice of the session handler the hub drives. Satisfied
// by *session.Handler.
type Dispatcher interface {
	Connected(connID string)
	Dispatch(connID, event string, args []json.RawMessage, ack session.Ack)
	Disconnecting(connID string)
}

// inboundKind classifies entries of the hub's dispatch queue.
type inboundKind int

const (
	inboundConnect inboundKind = iota
	inboundFrame
	inboundDisconnect
)

// inbound is one entry of the dispatch queue.
type inbound struct {
	kind inboundKind
	conn *Conn
	env  Envelope
}

// Hub owns all connections and their group subscriptions, and serializes
// event dispatch. The conns and groups maps are touched only from the Run
// goroutine, which is what makes the whole coordinator lock-free.
type Hub struct {
	dispatcher Dispatcher

	// conns maps connection id to connection.
	conns map[string]*Conn

	// groups maps group name to the set of subscribed connection ids. It is
	// a projection of registry membership, maintained through Subscribe and
	// Unsubscribe calls from the session handler.
	groups map[string]map[string]struct{}

	// inbound is the single dispatch queue all read pumps feed.
	inbound chan inbound

	// stop terminates the Run loop.
	stop chan struct{}

	// wg waits for the Run loop during shutdown.
	wg sync.WaitGroup

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub. Bind must be called before Run, and Run must be
// started exactly once before Shutdown.
func NewHub() *Hub {
	h := &Hub{
		conns:   make(map[string]*Conn),
		groups:  make(map[string]map[string]struct{}),
		inbound: make(chan inbound, inboundQueueSize),
		stop:    make(chan struct{}),
		logger:  logx.Logger().With().Str("component", "Hub").Logger(),
	}

	h.wg.Add(1)

	return h
}

// Bind attaches the session dispatcher. The handler needs the hub as its
// transport and the hub needs the handler for dispatch, so wiring happens
// in two steps at startup.
func (h *Hub) Bind(d Dispatcher) {
	h.dispatcher = d
}

// Run starts the dispatch loop. It processes one inbound event at a time
// until Shutdown is called.
func (h *Hub) Run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Dispatch loop started.")

	for {
		select {
		case ev := <-h.inbound:
			h.handle(ev)

		case <-h.stop:
			h.logger.Info().Msg("Dispatch loop stopping.")
			h.closeAll()
			return
		}
	}
}

// handle applies one inbound event.
func (h *Hub) handle(ev inbound) {
	switch ev.kind {
	case inboundConnect:
		h.conns[ev.conn.id] = ev.conn
		h.dispatcher.Connected(ev.conn.id)

	case inboundFrame:
		h.dispatcher.Dispatch(ev.conn.id, ev.env.Event, ev.env.Args, h.ackFor(ev.conn, ev.env.ID))

	case inboundDisconnect:
		// The handler sees consistent registry state before the connection
		// disappears from the transport.
		h.dispatcher.Disconnecting(ev.conn.id)
		h.dropConn(ev.conn)
	}
}

// ackFor builds the one-shot acknowledgement callback for a frame. Frames
// without a correlation id get a callback that only logs, so handlers can
// invoke their ack unconditionally.
func (h *Hub) ackFor(c *Conn, ackID uint64) session.Ack {
	if ackID == 0 {
		return func(args ...any) {
			h.logger.Debug().Str("conn_id", c.id).Msg("Ack dropped: frame carried no correlation id.")
		}
	}

	return func(args ...any) {
		if args == nil {
			args = []any{}
		}

		frame, err := json.Marshal(ackFrame{Ack: ackID, Args: args})
		if err != nil {
			h.logger.Error().Err(err).Uint64("ack_id", ackID).Msg("Error marshaling ack frame.")
			return
		}

		c.queue(frame)
	}
}

// dropConn removes a connection from every group and from the connection
// table, then releases its write loop.
func (h *Hub) dropConn(c *Conn) {
	for group, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}

	delete(h.conns, c.id)
	c.closeSend()
}

// closeAll tears down every remaining connection. Runs on shutdown only.
func (h *Hub) closeAll() {
	for id, c := range h.conns {
		delete(h.conns, id)
		c.closeSend()
	}
	h.groups = make(map[string]map[string]struct{})
}

// enqueue feeds one event into the dispatch queue, backing off only when
// the hub is stopping.
func (h *Hub) enqueue(ev inbound) {
	select {
	case h.inbound <- ev:
	case <-h.stop:
	}
}

// Register makes an upgraded connection live: the write loop starts, the
// connect event is queued, and the read loop takes over the calling
// goroutine until the connection ends.
func (h *Hub) Register(c *Conn) {
	go c.WritePump()
	h.enqueue(inbound{kind: inboundConnect, conn: c})
	c.ReadPump()
}

// NewConn wraps an upgraded WebSocket connection. Exported for the upgrade
// handler.
func (h *Hub) NewConn(sock *websocket.Conn) *Conn {
	return newConn(h, sock)
}

// Shutdown stops the dispatch loop and closes every connection.
func (h *Hub) Shutdown() {
	close(h.stop)
	h.wg.Wait()
	h.logger.Info().Msg("Hub shutdown complete.")
}

// Subscribe implements session.Transport.
func (h *Hub) Subscribe(connID, group string) {
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]struct{})
		h.groups[group] = members
	}
	members[connID] = struct{}{}
}

// Unsubscribe implements session.Transport.
func (h *Hub) Unsubscribe(connID, group string) {
	members, ok := h.groups[group]
	if !ok {
		return
	}

	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// BroadcastExcept implements session.Transport. The frame is marshaled once
// and fanned out to every subscriber of the group except exceptID.
func (h *Hub) BroadcastExcept(group, exceptID, event string, args ...any) {
	members, ok := h.groups[group]
	if !ok || len(members) == 0 {
		return
	}

	frame, err := json.Marshal(eventFrame{Event: event, Args: args})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Error marshaling broadcast frame.")
		return
	}

	for id := range members {
		if id == exceptID {
			continue
		}
		if c, ok := h.conns[id]; ok {
			c.queue(frame)
		}
	}
}

// SendTo implements session.Transport. Unknown connection ids are ignored.
func (h *Hub) SendTo(connID, event string, args ...any) {
	c, ok := h.conns[connID]
	if !ok {
		return
	}

	frame, err := json.Marshal(eventFrame{Event: event, Args: args})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Error marshaling directed frame.")
		return
	}

	c.queue(frame)
}
