package auth

import "errors"

// Common identity verification errors
var (
	// ErrInvalidToken indicates the token format is invalid, the signature doesn't
	// match, or the token was revoked
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrVerifierUnavailable indicates the identity provider could not be
	// reached or did not answer before the deadline
	ErrVerifierUnavailable = errors.New("identity verifier unavailable")
)

// IsAuthError reports whether err is one of the verification failures above.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrTokenNotYetValid) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrVerifierUnavailable)
}
