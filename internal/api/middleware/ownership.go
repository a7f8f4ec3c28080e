package middleware

import (
	"log/slog"
	"net/http"

	"github.com/sharebite/sharebite-api/internal/api/shared"
	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/logger"
)

// RequireOwnership restricts a route to callers whose verified e-mail equals
// the named query parameter exactly. It must run after Authenticate; without
// an identity in context it answers 401. A mismatch, or an identity without
// an e-mail, answers 403 and next is not called.
func RequireOwnership(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.GetIdentity(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, shared.MessageUnauthorized)
				return
			}

			requested := r.URL.Query().Get(param)
			if identity.Email == "" || requested != identity.Email {
				logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("ownership check failed",
					slog.String("param", param),
					slog.Bool("identity_has_email", identity.Email != ""))
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, shared.MessageForbidden, domain.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
