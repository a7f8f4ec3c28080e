// Package auth verifies bearer tokens and turns them into caller identities.
package auth

import "context"

// Identity is the verified subject of a bearer token.
type Identity struct {
	// UID is the provider's stable user identifier.
	UID string
	// Email is the e-mail claim. It may be empty when the provider account
	// has no e-mail address.
	Email         string
	EmailVerified bool
	// Provider names the verifier that produced the identity.
	Provider string
}

// IdentityVerifier verifies a bearer token.
type IdentityVerifier interface {
	// Verify checks the token and returns the identity it asserts.
	// Every failure wraps one of the package's sentinel errors.
	Verify(ctx context.Context, token string) (*Identity, error)
}
