package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test_secret_key_long_enough")

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := issuer.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test_secret_key_long_enough")

	past := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return past }
	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Validate(tok)
	assert.Error(t, err)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret_one_padded_for_length")
	other := NewTokenIssuer("secret_two_padded_for_length")

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Validate(tok)
	assert.Error(t, err)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test_secret_key_long_enough")
	_, err := issuer.Validate("clearly-not-a-jwt")
	assert.Error(t, err)
}
