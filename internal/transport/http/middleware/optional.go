package middleware

import "net/http"

// OptionalAuth injects the session into context when a bearer token is
// present, and lets anonymous requests through untouched. A token that is
// present but invalid is still rejected: silently downgrading a broken
// session to anonymous would mask expiry from the client.
func OptionalAuth(verifier TokenVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := BearerToken(r)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			claims, err := verifier.VerifySession(token)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
