/*
Package room contains the in-memory room state of the chat coordinator.

This file defines the Room struct and its value types. A Room is pure data:
membership, configuration, and the append-only event history. All mutation
happens through the Registry and the session handler; the JSON tags mirror
the wire format clients receive in acknowledgements and broadcasts.
*/
package room

import "fmt"

// Visibility controls whether a room accepts uninvited joins.
type Visibility string

const (
	// Public rooms can be joined by anyone holding the code.
	Public Visibility = "public"

	// Private rooms require the join request to name the creator as inviter.
	Private Visibility = "private"
)

// Unbounded is the MaxUsers sentinel for rooms without a capacity limit.
const Unbounded = -1

// EventKind classifies entries of a room's history.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventJoin   EventKind = "join"
	EventChat   EventKind = "chat"
	EventKick   EventKind = "kick"
	EventLeave  EventKind = "leave"
)

// Member is one participant of a room, unique by connection ID.
type Member struct {
	// ID is the opaque connection identifier assigned by the transport.
	ID string `json:"id"`

	// Username is the display name chosen when creating or joining.
	Username string `json:"username"`
}

// Event is one entry of a room's append-only history.
type Event struct {
	Kind EventKind `json:"type"`

	// Actor is the connection ID of the member the event is about.
	Actor string `json:"user"`

	Content string `json:"content"`
}

// Room is the complete state of one live chat room.
type Room struct {
	// Code is the unique room identifier, immutable after creation.
	Code string `json:"code"`

	// Creator is the connection ID of the room's creator. It is never
	// reassigned; the room dies with the creator's departure.
	Creator string `json:"creator"`

	// MaxUsers limits membership; Unbounded (-1) disables the limit.
	MaxUsers int `json:"max_user"`

	Visibility Visibility `json:"room_type"`

	// Members is ordered by join time and unique by connection ID.
	Members []Member `json:"users"`

	// History is append-only; entries are never reordered or mutated.
	History []Event `json:"messages"`
}

// Patch carries the creator-mutable configuration fields. Nil fields are
// left untouched. A Creator field is accepted on the wire but discarded:
// ownership can never be overwritten through configuration.
type Patch struct {
	MaxUsers   *int        `json:"max_user,omitempty"`
	Visibility *Visibility `json:"room_type,omitempty"`
	Creator    *string     `json:"creator,omitempty"`
}

// HasMember reports whether the connection is currently a member.
func (r *Room) HasMember(connID string) bool {
	for _, m := range r.Members {
		if m.ID == connID {
			return true
		}
	}
	return false
}

// MemberName returns the display name of a member, or "" if unknown.
func (r *Room) MemberName(connID string) string {
	for _, m := range r.Members {
		if m.ID == connID {
			return m.Username
		}
	}
	return ""
}

// IsFull reports whether the room is at capacity. Unbounded rooms are
// never full.
func (r *Room) IsFull() bool {
	return r.MaxUsers != Unbounded && len(r.Members) >= r.MaxUsers
}

// AddMember appends a member. Duplicate connection IDs are ignored to keep
// the uniqueness invariant.
func (r *Room) AddMember(m Member) {
	if r.HasMember(m.ID) {
		return
	}
	r.Members = append(r.Members, m)
}

// RemoveMember removes the member with the given connection ID, preserving
// the order of the rest. Removing an absent member is a no-op.
func (r *Room) RemoveMember(connID string) {
	kept := r.Members[:0]
	for _, m := range r.Members {
		if m.ID != connID {
			kept = append(kept, m)
		}
	}
	r.Members = kept
}

// Append records one history event. History only ever grows.
func (r *Room) Append(kind EventKind, actor, content string) {
	r.History = append(r.History, Event{Kind: kind, Actor: actor, Content: content})
}

// AppendJoin records a join event for the named member.
func (r *Room) AppendJoin(connID, username string) {
	r.Append(EventJoin, connID, fmt.Sprintf("%s join the room", username))
}

// AppendLeave records a leave event for the named member.
func (r *Room) AppendLeave(connID, username string) {
	r.Append(EventLeave, connID, fmt.Sprintf("%s leave the room", username))
}

// AppendKick records a kick of the named member, attributed to the creator.
func (r *Room) AppendKick(username string) {
	r.Append(EventKick, r.Creator, fmt.Sprintf("%s kicked by creator", username))
}
