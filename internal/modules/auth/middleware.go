package auth

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// RequireRole returns middleware that only admits requests bearing a
// valid token whose role claim matches.
func RequireRole(jwtSecret, role string) func(http.Handler) http.Handler {
	key := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == "" || raw == header {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
			if claims.Role != role {
				respond(w, http.StatusForbidden, map[string]string{"error": "insufficient role"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
