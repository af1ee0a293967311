/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct. The Message
strings double as the wire-level reason strings clients receive in error
acknowledgements, so their exact wording is part of the protocol.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the reason string and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room Business Logic Errors
	ErrRoomNotFound:    {Code: ErrRoomNotFound, Message: "Room does not exist"},
	ErrRoomPrivate:     {Code: ErrRoomPrivate, Message: "Room is private"},
	ErrRoomIsFull:      {Code: ErrRoomIsFull, Message: "Room is full"},
	ErrNotCreator:      {Code: ErrNotCreator, Message: "non creator cannot kick other people in the room"},
	ErrSelfKick:        {Code: ErrSelfKick, Message: "cant kick yourself"},
	ErrNotConfigurable: {Code: ErrNotConfigurable, Message: "only the creator can configure the room"},
	ErrCodesExhausted:  {Code: ErrCodesExhausted, Message: "no free room code available"},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
