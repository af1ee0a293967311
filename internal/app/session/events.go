/*
Package session reacts to per-connection lifecycle and action events.

This file names the wire-level events of the protocol. Inbound events are
actions a client initiates; outbound events are broadcasts or directed
notifications the handler emits in response.
*/
package session

// Inbound action events.
const (
	EventCreateRoom = "create room"
	EventConfigRoom = "config room"
	EventJoinRoom   = "join room"
	EventLeaveRoom  = "leave room"
	EventKickPerson = "kick person"
	EventChat       = "chat"
)

// Outbound events.
const (
	// EventNewRoomConfig is broadcast to a room after its creator changed
	// the configuration.
	EventNewRoomConfig = "new room config"

	// EventJoinedRoom is broadcast to existing members when someone joins.
	EventJoinedRoom = "joined room"

	// EventLeavedRoom is broadcast to remaining members when someone leaves.
	EventLeavedRoom = "leaved room"

	// EventKicked is sent directly to the kicked connection.
	EventKicked = "kicked"

	// EventSomeoneKicked is broadcast to remaining members after a kick.
	EventSomeoneKicked = "someone kicked"

	// EventNewChat is broadcast to a room when a member sends a message.
	EventNewChat = "new chat"
)

// Acknowledgement status strings.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
