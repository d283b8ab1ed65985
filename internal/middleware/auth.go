package middleware

import (
	"net/http"
	"strings"

	"plaza/internal/auth"
	"plaza/internal/httputil"
)

// publicPaths are served without a token.
var publicPaths = map[string]bool{
	"/health": true,
}

// Auth validates the bearer token on every request and stores the resulting
// actor in the request context. Requests without a valid token get a 401
// problem response. publicPrefixes lists additional unauthenticated path
// prefixes, like the local image file server.
func Auth(verifier auth.TokenVerifier, publicPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			actor := claims.Actor()
			next.ServeHTTP(w, httputil.WithActor(r, &actor))
		})
	}
}

func isPublic(path string, prefixes []string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
