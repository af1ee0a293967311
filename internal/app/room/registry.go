/*
Package room contains the in-memory room state of the chat coordinator.

This file defines the Registry, the single owner of all live rooms. It is the
authoritative source of membership; transport-level group subscriptions are a
derived projection the session handler keeps in sync. The Registry is not safe
for concurrent use: at runtime the hub's dispatch loop is its only caller.
*/
package room

import (
	"fmt"

	"github.com/rs/zerolog"

	"parlor/internal/pkg/errs"
	"parlor/internal/pkg/logx"
	"parlor/internal/pkg/randx"
)

// maxCodeAttempts bounds the rejection-sampling loop for fresh room codes.
// With 62^5 candidate codes the cap is unreachable at any realistic room
// count; it exists so pathological collision sequences fail loudly instead
// of spinning.
const maxCodeAttempts = 64

// Registry owns the mapping from room code to live room state.
type Registry struct {
	rooms map[string]*Room

	// generate draws one candidate room code. Swappable in tests to force
	// collisions.
	generate func() (string, error)

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry using the given code generator.
// Passing nil selects the default random generator.
func NewRegistry(generate func() (string, error)) *Registry {
	if generate == nil {
		generate = randx.RoomCode
	}

	return &Registry{
		rooms:    make(map[string]*Room),
		generate: generate,
		logger:   logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// nextCode rejection-samples a code that does not collide with any live
// room, giving up after maxCodeAttempts draws.
func (reg *Registry) nextCode() (string, *errs.CustomError) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := reg.generate()
		if err != nil {
			reg.logger.Error().Err(err).Msg("Room code draw failed.")
			return "", errs.NewError(errs.ErrUnknown)
		}

		if _, taken := reg.rooms[code]; !taken {
			return code, nil
		}
	}

	reg.logger.Error().
		Int("attempts", maxCodeAttempts).
		Int("live_rooms", len(reg.rooms)).
		Msg("Room code generation exhausted its retries.")

	return "", errs.NewError(errs.ErrCodesExhausted)
}

// Create inserts a new room owned by creatorID with default configuration:
// unbounded capacity, public visibility, the creator as sole member, and a
// single create entry in the history. It fails only when no free code can
// be found.
func (reg *Registry) Create(creatorID, username string) (*Room, *errs.CustomError) {
	code, customErr := reg.nextCode()
	if customErr != nil {
		return nil, customErr
	}

	r := &Room{
		Code:       code,
		Creator:    creatorID,
		MaxUsers:   Unbounded,
		Visibility: Public,
		Members:    []Member{{ID: creatorID, Username: username}},
		History: []Event{
			{Kind: EventCreate, Actor: creatorID, Content: fmt.Sprintf("%s create the room", username)},
		},
	}

	reg.rooms[code] = r

	reg.logger.Info().
		Str("room_code", code).
		Str("creator", creatorID).
		Msg("Room created.")

	return r, nil
}

// Configure merges the patch into the room and reports success. It returns
// false when the room does not exist or the caller is not its creator. The
// patch's creator field is discarded so configuration can never move
// ownership.
func (reg *Registry) Configure(code, callerID string, patch Patch) (*Room, bool) {
	r, ok := reg.rooms[code]
	if !ok || r.Creator != callerID {
		return nil, false
	}

	if patch.MaxUsers != nil {
		r.MaxUsers = *patch.MaxUsers
	}
	if patch.Visibility != nil {
		r.Visibility = *patch.Visibility
	}

	// patch.Creator is deliberately ignored: ownership never transfers
	// while the room lives.

	reg.logger.Info().
		Str("room_code", code).
		Int("max_user", r.MaxUsers).
		Str("room_type", string(r.Visibility)).
		Msg("Room configuration changed.")

	return r, true
}

// Lookup returns the live room for code, if any.
func (reg *Registry) Lookup(code string) (*Room, bool) {
	r, ok := reg.rooms[code]
	return r, ok
}

// Delete removes the room entirely. Deleting an unknown code is a no-op.
func (reg *Registry) Delete(code string) {
	if _, ok := reg.rooms[code]; ok {
		delete(reg.rooms, code)
		reg.logger.Info().Str("room_code", code).Msg("Room removed.")
	}
}

// OwnedBy returns every live room whose creator is connID. Disconnect
// handling walks this list to destroy orphaned rooms.
func (reg *Registry) OwnedBy(connID string) []*Room {
	var owned []*Room
	for _, r := range reg.rooms {
		if r.Creator == connID {
			owned = append(owned, r)
		}
	}
	return owned
}

// Len reports the number of live rooms.
func (reg *Registry) Len() int {
	return len(reg.rooms)
}
