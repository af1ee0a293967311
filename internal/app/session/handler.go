/*
Package session reacts to per-connection lifecycle and action events.

This file defines the Handler, which validates each action against registry
state and caller identity, mutates the registry, and decides which
connections learn about the outcome: a direct acknowledgement to the caller,
a broadcast to the other members, or a directed notification.

Handler methods are not safe for concurrent use. The hub's dispatch loop
invokes them one at a time, which is the concurrency model of the whole
coordinator: every action runs to completion before the next begins.
*/
package session

import (
	"github.com/rs/zerolog"

	"parlor/internal/app/room"
	"parlor/internal/pkg/errs"
	"parlor/internal/pkg/logx"
)

// Transport is the capability surface the handler needs from the connection
// layer. The registry's member list is the source of truth; these calls keep
// the transport's group subscriptions in sync with it.
type Transport interface {
	// Subscribe adds the connection to a named group.
	Subscribe(connID, group string)

	// Unsubscribe releases the connection's membership of a group. Used for
	// voluntary leaves, kicks, and room destruction alike.
	Unsubscribe(connID, group string)

	// BroadcastExcept delivers an event to every subscriber of a group
	// except the named connection.
	BroadcastExcept(group, exceptID, event string, args ...any)

	// SendTo delivers an event to one specific connection.
	SendTo(connID, event string, args ...any)
}

// Ack delivers a one-time response to the connection that initiated an
// action. Handlers invoke it at most once; actions without a defined
// acknowledgement never invoke it.
type Ack func(args ...any)

// Handler applies action and lifecycle events to the room registry.
type Handler struct {
	registry  *room.Registry
	transport Transport
	logger    zerolog.Logger
}

// NewHandler constructs a Handler over the given registry and transport.
func NewHandler(registry *room.Registry, transport Transport) *Handler {
	return &Handler{
		registry:  registry,
		transport: transport,
		logger:    logx.Logger().With().Str("component", "Session").Logger(),
	}
}

// Connected records a new connection. No room state is touched.
func (h *Handler) Connected(connID string) {
	h.logger.Info().Str("conn_id", connID).Msg("Connection established.")
}

// CreateRoom creates a room owned by the caller and acknowledges with the
// fresh code and full room state. Only code-space exhaustion can fail.
func (h *Handler) CreateRoom(connID, username string, ack Ack) {
	r, customErr := h.registry.Create(connID, username)
	if customErr != nil {
		ack(StatusError, customErr.Message)
		return
	}

	h.transport.Subscribe(connID, r.Code)
	ack(r.Code, r)

	h.logger.Info().
		Str("conn_id", connID).
		Str("room_code", r.Code).
		Msg("Room created.")
}

// ConfigRoom applies a configuration patch. Only the creator may configure;
// anyone else receives an error acknowledgement. On success the new
// configuration is broadcast to the other members and echoed to the caller.
func (h *Handler) ConfigRoom(connID, code string, patch room.Patch, ack Ack) {
	r, ok := h.registry.Configure(code, connID, patch)
	if !ok {
		h.logger.Warn().
			Str("conn_id", connID).
			Str("room_code", code).
			Msg("Rejected configure from non-creator.")

		ack(StatusError, errs.Reason(errs.ErrNotConfigurable))
		return
	}

	h.transport.BroadcastExcept(code, connID, EventNewRoomConfig, r)
	ack(r)
}

// JoinRoom admits the caller to a room. Preconditions are checked in fixed
// order and the first failure determines the reported reason: the room must
// exist, must be public or have the creator as inviter, and must have a free
// slot. A failed join leaves the room untouched.
func (h *Handler) JoinRoom(connID, code, username, inviter string, ack Ack) {
	r, ok := h.registry.Lookup(code)
	if !ok {
		ack(code, StatusError, errs.Reason(errs.ErrRoomNotFound))
		return
	}

	if r.Visibility != room.Public && inviter != r.Creator {
		ack(code, StatusError, errs.Reason(errs.ErrRoomPrivate))
		return
	}

	if r.IsFull() {
		ack(code, StatusError, errs.Reason(errs.ErrRoomIsFull))
		return
	}

	r.AddMember(room.Member{ID: connID, Username: username})
	r.AppendJoin(connID, username)
	h.transport.Subscribe(connID, code)

	h.transport.BroadcastExcept(code, connID, EventJoinedRoom, r)
	ack(code, StatusSuccess, r)

	h.logger.Info().
		Str("conn_id", connID).
		Str("room_code", code).
		Msg("Member joined room.")
}

// LeaveRoom removes the caller from a room. A leaving creator destroys the
// room for everyone; any other member is removed and the remaining members
// are notified. Leaving an unknown room is a no-op. This action never
// acknowledges.
func (h *Handler) LeaveRoom(connID, code string) {
	r, ok := h.registry.Lookup(code)
	if !ok {
		return
	}

	if r.Creator == connID {
		h.destroyRoom(r)

		h.logger.Info().
			Str("room_code", code).
			Msg("Creator left, room destroyed.")
		return
	}

	username := r.MemberName(connID)
	r.RemoveMember(connID)
	r.AppendLeave(connID, username)

	h.transport.BroadcastExcept(code, connID, EventLeavedRoom, r)
	h.transport.Unsubscribe(connID, code)

	h.logger.Info().
		Str("conn_id", connID).
		Str("room_code", code).
		Msg("Member left room.")
}

// KickPerson removes a target member on behalf of the creator. Authorization
// is checked before the self-kick rule, so a non-creator self-kick reports
// the authorization failure. The target gets a directed notification, the
// remaining members a broadcast, and the caller a success acknowledgement.
func (h *Handler) KickPerson(connID, code, targetID string, ack Ack) {
	r, ok := h.registry.Lookup(code)
	if !ok || r.Creator != connID {
		ack(StatusError, errs.Reason(errs.ErrNotCreator))
		return
	}

	if targetID == connID {
		ack(StatusError, errs.Reason(errs.ErrSelfKick))
		return
	}

	username := r.MemberName(targetID)
	r.RemoveMember(targetID)
	r.AppendKick(username)

	h.transport.SendTo(targetID, EventKicked, code)
	h.transport.Unsubscribe(targetID, code)
	h.transport.BroadcastExcept(code, connID, EventSomeoneKicked, r)
	ack(StatusSuccess, r)

	h.logger.Info().
		Str("room_code", code).
		Str("target", targetID).
		Msg("Member kicked by creator.")
}

// Chat appends a chat message to the room history and fans it out. The
// caller is assumed to be a member; an unknown room degrades to an error
// acknowledgement rather than a crash.
func (h *Handler) Chat(connID, code, content string, ack Ack) {
	r, ok := h.registry.Lookup(code)
	if !ok {
		ack(StatusError, errs.Reason(errs.ErrRoomNotFound))
		return
	}

	r.Append(room.EventChat, connID, content)

	h.transport.BroadcastExcept(code, connID, EventNewChat, r)
	ack(r)
}

// Disconnecting handles an ungraceful connection drop. Every room the
// dropped connection created is destroyed, releasing all of its members.
// Rooms where the connection was an ordinary member keep their entry; the
// member can never return, but the history already tells the story.
func (h *Handler) Disconnecting(connID string) {
	for _, r := range h.registry.OwnedBy(connID) {
		h.destroyRoom(r)

		h.logger.Info().
			Str("room_code", r.Code).
			Str("creator", connID).
			Msg("Creator disconnected, room destroyed.")
	}

	h.logger.Info().Str("conn_id", connID).Msg("Connection closed.")
}

// destroyRoom releases every member's subscription and deletes the room.
// The creator is always part of the member list, so the walk covers them.
func (h *Handler) destroyRoom(r *room.Room) {
	for _, m := range r.Members {
		h.transport.Unsubscribe(m.ID, r.Code)
	}

	h.registry.Delete(r.Code)
}
