package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharebite/sharebite-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestVerifier(t *testing.T, now time.Time) *JWTVerifier {
	t.Helper()
	v, err := NewJWTVerifier(config.AuthConfig{
		JWTSecret:     testSecret,
		JWTIssuer:     "sharebite",
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)
	v.timeFunc = func() time.Time { return now }
	return v
}

func TestNewJWTVerifier_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTVerifier(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(t, now)

	token, err := v.GenerateToken(context.Background(), "donor@example.com", "uid-1")
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{
		UID:           "uid-1",
		Email:         "donor@example.com",
		EmailVerified: true,
		Provider:      ProviderJWT,
	}, identity)
}

func TestJWTVerifier_Failures(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestVerifier(t, issued)
	token, err := issuer.GenerateToken(context.Background(), "donor@example.com", "")
	require.NoError(t, err)

	otherSecret, err := NewJWTVerifier(config.AuthConfig{
		JWTSecret: "another-secret-that-is-long-enough-for-tests",
		JWTIssuer: "sharebite",
	})
	require.NoError(t, err)
	otherSecret.timeFunc = func() time.Time { return issued }

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "donor@example.com",
		"exp":   issued.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := NewJWTVerifier(config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "someone-else"})
	require.NoError(t, err)
	wrongIssuer.timeFunc = func() time.Time { return issued }

	tests := []struct {
		name     string
		verifier *JWTVerifier
		token    string
		wantErr  error
	}{
		{"empty token", issuer, "", ErrMissingToken},
		{"garbage", issuer, "not.a.jwt", ErrInvalidToken},
		{"tampered", issuer, withSignature(token, "c2lnbmF0dXJl"), ErrInvalidToken},
		{"wrong secret", otherSecret, token, ErrInvalidToken},
		{"unsigned", issuer, noneToken, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, token, ErrInvalidToken},
		{"expired", newTestVerifier(t, issued.Add(2*time.Hour)), token, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			identity, err := tt.verifier.Verify(context.Background(), tt.token)
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsAuthError(err))
		})
	}
}

func TestJWTVerifier_CanceledContext(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t, time.Now())
	token, err := v.GenerateToken(context.Background(), "donor@example.com", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = v.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrVerifierUnavailable)
}

func TestJWTVerifier_TokenWithoutEmail(t *testing.T) {
	t.Parallel()

	v := newTestVerifier(t, time.Now())
	token, err := v.GenerateToken(context.Background(), "", "anonymous-uid")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	identity, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, identity.Email)
	assert.False(t, identity.EmailVerified)
	assert.Equal(t, "anonymous-uid", identity.UID)
}

func withSignature(token, signature string) string {
	parts := strings.Split(token, ".")
	parts[2] = signature
	return strings.Join(parts, ".")
}
