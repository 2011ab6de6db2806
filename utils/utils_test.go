package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Brakes", "brakes"},
		{"spaces_and_punctuation", "Brake Pads!", "brake-pads"},
		{"leading_trailing_space", "  Engine Oil  ", "engine-oil"},
		{"whitespace_run", "Air\t \nFilters", "air-filters"},
		{"accents_stripped", "Café", "caf"},
		{"underscore_and_hyphen_kept", "spark_plugs-v2", "spark_plugs-v2"},
		{"digits_kept", "OBD2 Scanners", "obd2-scanners"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GenerateSlug(tc.in))
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 10, ParseIntDefault("", 10))
	assert.Equal(t, 10, ParseIntDefault("abc", 10))
	assert.Equal(t, 42, ParseIntDefault("42", 10))
	assert.Equal(t, -3, ParseIntDefault("-3", 10))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong-pass"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "a@b.com", "SELLER", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "SELLER", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "a@b.com", "ADMIN", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "a@b.com", "ADMIN", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestTokenTTLs(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")
	assert.Equal(t, 15*time.Minute, AccessTTL())
	assert.Equal(t, 14*24*time.Hour, RefreshTTL())

	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	assert.Equal(t, 30*time.Minute, AccessTTL())
	assert.Equal(t, 7*24*time.Hour, RefreshTTL())
}
