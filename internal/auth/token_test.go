package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	identity := IdentityClaims{
		SubjectID: 42,
		Phone:     "0900000000",
		Role:      "admin",
		Name:      "Test User",
		Language:  "ACTIVE",
	}

	token, expiresAt, err := tm.Issue(identity, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "0900000000", claims.Phone)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "ACTIVE", claims.Language)

	subjectID, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), subjectID)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, _, err := tm.Issue(IdentityClaims{SubjectID: 1, Phone: "0900000000"}, -time.Minute)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenForeignSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a")
	verifier := NewTokenManager("secret-b")

	token, _, err := issuer.Issue(IdentityClaims{SubjectID: 1, Phone: "0900000000"}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestCallerSuppliedTTLs(t *testing.T) {
	tm := NewTokenManager("test-secret")

	_, shortExp, err := tm.Issue(IdentityClaims{SubjectID: 1}, time.Hour)
	require.NoError(t, err)
	_, longExp, err := tm.Issue(IdentityClaims{SubjectID: 1}, 10*time.Hour)
	require.NoError(t, err)

	assert.WithinDuration(t, shortExp.Add(9*time.Hour), longExp, 5*time.Second)
}
