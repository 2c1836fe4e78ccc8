package utils

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("DEVBOARD_JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(42, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tok, err := GenerateToken(42, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestSanitize(t *testing.T) {
	clean := Sanitize(`<p>hello <script>alert(1)</script><b>world</b></p>`)
	assert.NotContains(t, clean, "<script>")
	assert.Contains(t, clean, "world")
}
