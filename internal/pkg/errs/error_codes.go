/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in the reason strings sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Room Business Logic Errors
const (
	// ErrRoomNotFound indicates that the room code does not resolve to a live room.
	ErrRoomNotFound = 2101

	// ErrRoomPrivate indicates an uninvited join attempt on a private room.
	ErrRoomPrivate = 2102

	// ErrRoomIsFull indicates that the room has reached its maximum user capacity.
	ErrRoomIsFull = 2103

	// ErrNotCreator indicates a privileged action attempted by a non-creator.
	ErrNotCreator = 2104

	// ErrSelfKick indicates that the creator attempted to kick themself.
	ErrSelfKick = 2105

	// ErrNotConfigurable indicates a configure attempt by a non-creator or on a dead room.
	ErrNotConfigurable = 2106

	// ErrCodesExhausted indicates that room code generation gave up after
	// repeated collisions with live rooms.
	ErrCodesExhausted = 2107
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
