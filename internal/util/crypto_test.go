package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateToken(t *testing.T) {
	t.Run("produces 64 hex characters", func(t *testing.T) {
		token, err := GenerateToken()

		assert.NoError(t, err)
		assert.Len(t, token, 64)
		assert.Regexp(t, "^[0-9a-f]+$", token)
	})

	t.Run("produces unique values", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := GenerateToken()
			assert.NoError(t, err)
			assert.False(t, seen[token], "duplicate token generated")
			seen[token] = true
		}
	})
}

func TestHmacSHA256(t *testing.T) {
	t.Run("deterministic for the same secret and data", func(t *testing.T) {
		assert.Equal(t, HmacSHA256("secret", "data"), HmacSHA256("secret", "data"))
	})

	t.Run("different secrets sign differently", func(t *testing.T) {
		assert.NotEqual(t, HmacSHA256("secret-a", "data"), HmacSHA256("secret-b", "data"))
	})

	t.Run("different data signs differently", func(t *testing.T) {
		assert.NotEqual(t, HmacSHA256("secret", "data-a"), HmacSHA256("secret", "data-b"))
	})
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("abc", "abc"))
	assert.False(t, ConstantTimeEqual("abc", "abd"))
	assert.False(t, ConstantTimeEqual("abc", "abcd"))
	assert.True(t, ConstantTimeEqual("", ""))
}

func TestPasswordHashing(t *testing.T) {
	t.Run("hash verifies the original password", func(t *testing.T) {
		hash, err := HashPassword("Sup3r$ecret")

		assert.NoError(t, err)
		assert.True(t, CheckPasswordHash("Sup3r$ecret", hash))
	})

	t.Run("hash rejects a different password", func(t *testing.T) {
		hash, err := HashPassword("Sup3r$ecret")

		assert.NoError(t, err)
		assert.False(t, CheckPasswordHash("sup3r$ecret", hash))
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		hash1, _ := HashPassword("Sup3r$ecret")
		hash2, _ := HashPassword("Sup3r$ecret")

		assert.NotEqual(t, hash1, hash2)
	})
}
