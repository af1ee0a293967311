package randx_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parlor/internal/pkg/randx"
)

func TestRoomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := randx.RoomCode()
		require.NoError(t, err)

		assert.Len(t, code, randx.RoomCodeLength)
		for _, char := range code {
			assert.True(t, strings.ContainsRune(randx.CodeAlphabet, char), "unexpected character %q in room code %q", char, code)
		}
	}
}

func TestIsValidRoomCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"generated shape", "Ab9Zx", true},
		{"all digits", "12345", true},
		{"too short", "Ab9Z", false},
		{"too long", "Ab9Zxq", false},
		{"empty", "", false},
		{"symbol", "Ab9Z!", false},
		{"whitespace", "Ab 9Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, randx.IsValidRoomCode(tt.code))
		})
	}
}

func TestConnectionID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := randx.ConnectionID()
		require.NotEmpty(t, id)

		_, dup := seen[id]
		assert.False(t, dup, "connection id %q minted twice", id)
		seen[id] = struct{}{}
	}
}
