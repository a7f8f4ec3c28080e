package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sharebite/sharebite-api/internal/api/shared"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
	"github.com/sharebite/sharebite-api/internal/service/auth"
)

// DefaultVerifyTimeout bounds identity verification when no timeout is configured.
const DefaultVerifyTimeout = 5 * time.Second

// AuthMiddleware verifies bearer tokens for routes that require a caller identity.
type AuthMiddleware struct {
	verifier auth.IdentityVerifier
	timeout  time.Duration
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier auth.IdentityVerifier, timeout time.Duration) *AuthMiddleware {
	if verifier == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("verifier cannot be nil for AuthMiddleware")
	}
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &AuthMiddleware{
		verifier: verifier,
		timeout:  timeout,
	}
}

// Authenticate requires an "Authorization: Bearer <token>" header carrying a
// token the verifier accepts. On success the verified identity is added to
// the request context; any failure answers 401 without calling next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, shared.MessageUnauthorized, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), m.timeout)
		identity, err := m.verifier.Verify(ctx, token)
		cancel()
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, shared.MessageUnauthorized, err)
			return
		}

		ctx = shared.SetIdentity(r.Context(), identity)
		if log, ok := logger.FromContext(ctx); ok {
			ctx = logger.WithLogger(ctx, log.With(slog.String("uid", identity.UID)))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an Authorization header value of the
// exact form "Bearer <token>".
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("%w: invalid authorization format", auth.ErrInvalidToken)
	}
	if parts[1] == "" {
		return "", auth.ErrMissingToken
	}
	return parts[1], nil
}

// GetIdentity extracts the verified identity from the request context.
func GetIdentity(r *http.Request) (*auth.Identity, bool) {
	return shared.GetIdentity(r.Context())
}
