/*
Package randx provides random identifier generation for the chat server.

It is primarily used to draw fixed-length alphanumeric room codes and to mint
unique connection identifiers.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// CodeAlphabet defines the character set room codes are drawn from
	// (A-Z, a-z, 0-9: 62 symbols).
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// alphabetLen is the total number of characters in CodeAlphabet.
	alphabetLen = int64(len(CodeAlphabet))

	// RoomCodeLength is the fixed length of a generated room code.
	RoomCodeLength = 5
)

// RoomCode draws a uniformly random room code of RoomCodeLength characters
// from CodeAlphabet using crypto/rand. Uniqueness against live rooms is the
// caller's concern; this is a single draw.
func RoomCode() (string, error) {
	result := make([]byte, RoomCodeLength)

	for i := 0; i < RoomCodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(alphabetLen))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for room code: %v", err)
		}

		result[i] = CodeAlphabet[num.Int64()]
	}

	return string(result), nil
}

// ConnectionID mints an opaque identifier for a newly accepted connection.
func ConnectionID() string {
	return uuid.New().String()
}

// IsValidRoomCode reports whether code has the exact length and alphabet of
// a generated room code. Used to reject junk codes at the protocol edge.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for _, char := range code {
		if !strings.ContainsRune(CodeAlphabet, char) {
			return false
		}
	}

	return true
}
