package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIDTokenVerifier struct {
	token *fbauth.Token
	err   error
	calls int
}

func (f *fakeIDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	f.calls++
	return f.token, f.err
}

func TestFirebaseVerifier_Verify(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		fake := &fakeIDTokenVerifier{token: &fbauth.Token{
			UID: "firebase-uid",
			Claims: map[string]interface{}{
				"email":          "donor@example.com",
				"email_verified": true,
			},
		}}
		v := &FirebaseVerifier{client: fake}

		identity, err := v.Verify(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Equal(t, &Identity{
			UID:           "firebase-uid",
			Email:         "donor@example.com",
			EmailVerified: true,
			Provider:      ProviderFirebase,
		}, identity)
	})

	t.Run("missing token skips the provider", func(t *testing.T) {
		t.Parallel()

		fake := &fakeIDTokenVerifier{}
		v := &FirebaseVerifier{client: fake}

		_, err := v.Verify(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.Zero(t, fake.calls)
	})

	t.Run("rejected token", func(t *testing.T) {
		t.Parallel()

		v := &FirebaseVerifier{client: &fakeIDTokenVerifier{err: errors.New("ID token has invalid signature")}}

		_, err := v.Verify(context.Background(), "id-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("provider timeout", func(t *testing.T) {
		t.Parallel()

		v := &FirebaseVerifier{client: &fakeIDTokenVerifier{err: context.DeadlineExceeded}}

		_, err := v.Verify(context.Background(), "id-token")
		assert.ErrorIs(t, err, ErrVerifierUnavailable)
	})

	t.Run("token without email", func(t *testing.T) {
		t.Parallel()

		v := &FirebaseVerifier{client: &fakeIDTokenVerifier{token: &fbauth.Token{UID: "phone-user"}}}

		identity, err := v.Verify(context.Background(), "id-token")
		require.NoError(t, err)
		assert.Empty(t, identity.Email)
	})
}

func TestDecodeServiceKey(t *testing.T) {
	t.Parallel()

	raw := `{"type":"service_account","project_id":"sharebite"}`

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"standard base64", base64.StdEncoding.EncodeToString([]byte(raw)), false},
		{"unpadded base64", base64.RawStdEncoding.EncodeToString([]byte(raw)), false},
		{"plain json", raw, false},
		{"empty", "  ", true},
		{"not base64", "%%%", true},
		{"base64 of non-json", base64.StdEncoding.EncodeToString([]byte("hello")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeServiceKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, raw, string(got))
		})
	}
}
