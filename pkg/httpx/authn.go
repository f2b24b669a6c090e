package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/famlyapp/famly/pkg/jwtx"
	"github.com/famlyapp/famly/pkg/slogx"
)

// Error codes returned by the authn middleware. The client distinguishes
// token_expired (force re-login) from invalid_token (also re-login, but may
// indicate a bug) from plain transport failures.
const (
	ErrorCodeInvalidToken = "invalid_token"
	ErrorCodeTokenExpired = "token_expired"
)

// AuthnMiddleware validates the bearer token and injects the authenticated
// user ID into the request context. The token subject is the only trusted
// identity source; handlers must never read a user ID from the request body.
func AuthnMiddleware(codec *jwtx.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, ErrorCodeInvalidToken, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := codec.Verify(raw)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					writeBearerError(w, ErrorCodeTokenExpired, "token expired")
					return
				}
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, ErrorCodeInvalidToken, "token verification failed")
				return
			}

			ctx := ContextWithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style bearer error plus our standard JSON body.
func writeBearerError(w http.ResponseWriter, code, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, code, desc)
}
