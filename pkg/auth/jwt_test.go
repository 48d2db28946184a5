package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePairRoundTrip(t *testing.T) {
	pair, err := GeneratePair(7, "ravi")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := ValidateToken(pair.Access, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ravi", claims.Username)
	assert.Equal(t, TypeAccess, claims.TokenType)

	claims, err = ValidateToken(pair.Refresh, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.TokenType)
}

func TestValidateTokenWrongType(t *testing.T) {
	pair, err := GeneratePair(1, "ravi")
	require.NoError(t, err)

	_, err = ValidateToken(pair.Refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = ValidateToken(pair.Access, TypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", TypeAccess)
	assert.Error(t, err)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	pair, err := GeneratePair(1, "ravi")
	require.NoError(t, err)

	// Flip the signature segment.
	parts := strings.Split(pair.Access, ".")
	require.Len(t, parts, 3)
	parts[2] = strings.Repeat("A", len(parts[2]))

	_, err = ValidateToken(strings.Join(parts, "."), TypeAccess)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}
