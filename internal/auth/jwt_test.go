package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePairAndVerify(t *testing.T) {
	j := NewJWT("test-secret", 15*time.Minute, 24*time.Hour)

	pair, err := j.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	uid, err := j.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)

	uid, err = j.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	j := NewJWT("test-secret", 15*time.Minute, 24*time.Hour)

	pair, err := j.IssuePair(7)
	require.NoError(t, err)

	_, err = j.VerifyAccess(pair.Refresh)
	assert.Error(t, err)

	_, err = j.VerifyRefresh(pair.Access)
	assert.Error(t, err)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	j := NewJWT("test-secret", 15*time.Minute, 24*time.Hour)
	other := NewJWT("other-secret", 15*time.Minute, 24*time.Hour)

	pair, err := j.IssuePair(7)
	require.NoError(t, err)

	_, err = other.VerifyAccess(pair.Access)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	j := NewJWT("test-secret", -time.Minute, -time.Minute)

	pair, err := j.IssuePair(7)
	require.NoError(t, err)

	_, err = j.VerifyAccess(pair.Access)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	j := NewJWT("test-secret", 15*time.Minute, 24*time.Hour)

	_, err := j.VerifyAccess("not-a-token")
	assert.Error(t, err)
}
