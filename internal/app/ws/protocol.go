/*
Package ws implements the WebSocket transport of the chat coordinator.

This file defines the wire framing. Clients send envelopes naming an event
and a positional argument list, optionally tagged with a correlation id when
they expect an acknowledgement. The server answers with ack frames and
pushes event frames for broadcasts and directed notifications.
*/
package ws

import "encoding/json"

// Envelope is one inbound frame from a client.
type Envelope struct {
	// ID correlates the acknowledgement with the request. Zero means the
	// client does not want an acknowledgement.
	ID uint64 `json:"id,omitempty"`

	// Event names the action, e.g. "create room".
	Event string `json:"event"`

	// Args is the positional argument list, decoded per event.
	Args []json.RawMessage `json:"args"`
}

// ackFrame answers an Envelope that carried a non-zero ID.
type ackFrame struct {
	Ack  uint64 `json:"ack"`
	Args []any  `json:"args"`
}

// eventFrame is a server-initiated push: a room broadcast or a directed
// notification.
type eventFrame struct {
	Event string `json:"event"`
	Args  []any  `json:"args"`
}
