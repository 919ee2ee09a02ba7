package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyHasherDeterministic(t *testing.T) {
	h := LegacyHasher{}

	first, err := h.Digest("secret1")
	require.NoError(t, err)
	second, err := h.Digest("secret1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestLegacyHasherMatches(t *testing.T) {
	h := LegacyHasher{}
	digest, err := h.Digest("secret1")
	require.NoError(t, err)

	assert.True(t, h.Matches("secret1", digest))
	assert.False(t, h.Matches("wrongpass", digest))
}

func TestBcryptHasherRoundtrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	digest, err := h.Digest("secret1")
	require.NoError(t, err)
	assert.True(t, h.Matches("secret1", digest))
	assert.False(t, h.Matches("wrongpass", digest))

	// salted: two digests of the same password differ
	other, err := h.Digest("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other)
}

func TestVerifyPasswordDispatch(t *testing.T) {
	legacy, err := LegacyHasher{}.Digest("secret1")
	require.NoError(t, err)
	bc, err := BcryptHasher{Cost: 4}.Digest("secret1")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("secret1", legacy))
	assert.True(t, VerifyPassword("secret1", bc))
	assert.False(t, VerifyPassword("wrongpass", legacy))
	assert.False(t, VerifyPassword("wrongpass", bc))
}
