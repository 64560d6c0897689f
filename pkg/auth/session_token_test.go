package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenGenerator_Generate(t *testing.T) {
	gen := NewSessionTokenGenerator()

	token, sessionID, err := gen.Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "st_"))
	assert.Len(t, sessionID, 16)

	extracted, err := gen.ExtractSessionID(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, extracted)
}

func TestSessionTokenGenerator_GenerateWithSession(t *testing.T) {
	gen := NewSessionTokenGenerator()

	_, sessionID, err := gen.Generate()
	require.NoError(t, err)

	rotated, err := gen.GenerateWithSession(sessionID)
	require.NoError(t, err)

	extracted, err := gen.ExtractSessionID(rotated)
	require.NoError(t, err)
	assert.Equal(t, sessionID, extracted)
}

func TestSessionTokenGenerator_ExtractSessionID_Invalid(t *testing.T) {
	gen := NewSessionTokenGenerator()

	cases := []string{
		"",
		"st_short_abc",
		"xx_0123456789abcdef_0123456789abcdef0123456789abcdef",
		"st_0123456789abcdeZ_0123456789abcdef0123456789abcdef",
		"st_0123456789abcdef",
	}
	for _, token := range cases {
		_, err := gen.ExtractSessionID(token)
		assert.Error(t, err, "token %q should be rejected", token)
	}
}

func TestSessionTokenGenerator_HashAndCompare(t *testing.T) {
	gen := NewSessionTokenGenerator()

	token, _, err := gen.Generate()
	require.NoError(t, err)

	hash := gen.Hash(token)
	assert.Len(t, hash, 64)
	assert.True(t, gen.CompareHashes(hash, gen.Hash(token)))
	assert.False(t, gen.CompareHashes(hash, gen.Hash("other")))
}

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 48)

	other, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	assert.Equal(t, HashResetToken(token), HashResetToken(token))
	assert.NotEqual(t, HashResetToken(token), HashResetToken(other))
}
