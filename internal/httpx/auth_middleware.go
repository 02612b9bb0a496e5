package httpx

import (
	"net/http"
	"strings"
)

// TokenParser turns a bearer token into the caller it was issued to.
type TokenParser interface {
	ParsePrincipal(token string) (Principal, error)
}

// Authenticate attaches the bearer token's principal to the request.
// Requests without an Authorization header continue anonymously; a malformed
// or invalid token is rejected with 401.
func Authenticate(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			principal, err := parser.ParsePrincipal(token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole rejects callers lacking role with 403 before next sees the
// request body.
func RequireRole(role, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := PrincipalFrom(r)
			if !principal.HasRole(role) {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
