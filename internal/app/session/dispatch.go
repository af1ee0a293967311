/*
Package session reacts to per-connection lifecycle and action events.

This file routes decoded wire envelopes to the typed handler methods. It is
the protocol edge: positional JSON arguments are bound to Go values here,
and nothing a client sends past this point can crash the dispatch loop.
*/
package session

import (
	"encoding/json"

	"parlor/internal/app/room"
	"parlor/internal/pkg/errs"
	"parlor/internal/pkg/randx"
)

// Dispatch decodes the positional arguments of one inbound event and calls
// the matching handler. Malformed arguments degrade to an error
// acknowledgement; unknown events are logged and dropped.
func (h *Handler) Dispatch(connID, event string, args []json.RawMessage, ack Ack) {
	switch event {
	case EventCreateRoom:
		var username string
		if !h.bind(connID, event, args, ack, &username) {
			return
		}
		h.CreateRoom(connID, username, ack)

	case EventConfigRoom:
		var code string
		var patch room.Patch
		if !h.bind(connID, event, args, ack, &code, &patch) {
			return
		}
		h.ConfigRoom(connID, code, patch, ack)

	case EventJoinRoom:
		var code, username string
		var inviter *string
		if !h.bind(connID, event, args, ack, &code, &username, &inviter) {
			return
		}

		// A code that cannot have been issued is indistinguishable from a
		// dead room; reject it before touching the registry.
		if !randx.IsValidRoomCode(code) {
			ack(code, StatusError, errs.Reason(errs.ErrRoomNotFound))
			return
		}

		var inviterID string
		if inviter != nil {
			inviterID = *inviter
		}
		h.JoinRoom(connID, code, username, inviterID, ack)

	case EventLeaveRoom:
		var code string
		if !h.bind(connID, event, args, ack, &code) {
			return
		}
		h.LeaveRoom(connID, code)

	case EventKickPerson:
		var code, targetID string
		if !h.bind(connID, event, args, ack, &code, &targetID) {
			return
		}
		h.KickPerson(connID, code, targetID, ack)

	case EventChat:
		var code, content string
		if !h.bind(connID, event, args, ack, &code, &content) {
			return
		}
		h.Chat(connID, code, content, ack)

	default:
		h.logger.Warn().
			Str("conn_id", connID).
			Str("event", event).
			Msg("Client sent unsupported event.")
	}
}

// bind unmarshals each positional argument into the matching destination.
// Missing or malformed arguments produce an error acknowledgement and a
// false return.
func (h *Handler) bind(connID, event string, args []json.RawMessage, ack Ack, dsts ...any) bool {
	if len(args) < len(dsts) {
		h.logger.Warn().
			Str("conn_id", connID).
			Str("event", event).
			Int("got", len(args)).
			Int("want", len(dsts)).
			Msg("Client sent too few arguments.")

		ack(StatusError, errs.Reason(errs.ErrInvalidParams))
		return false
	}

	for i, dst := range dsts {
		if err := json.Unmarshal(args[i], dst); err != nil {
			h.logger.Warn().Err(err).
				Str("conn_id", connID).
				Str("event", event).
				Int("arg", i).
				Msg("Client sent malformed argument.")

			ack(StatusError, errs.Reason(errs.ErrInvalidParams))
			return false
		}
	}

	return true
}
