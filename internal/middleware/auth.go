package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"kbase/internal/auth"
	"kbase/internal/domain/services"
	"kbase/internal/httputil"
)

// Auth verifies the bearer token, resolves the caller's permission
// record (creating a viewer row on first sight) and stores both on the
// request context. Requests without a token get 401, except for the
// read endpoints that serve anonymous callers public content only; those
// pass through without an identity and the handlers restrict visibility.
func Auth(verifier auth.JWTVerifier, users services.UserService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				if anonymousRead(r) {
					next.ServeHTTP(w, r)
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			perms, err := users.EnsureUser(r.Context(), claims.GetUserID(), claims.Username, claims.Email)
			if err != nil {
				logger.Error("failed to resolve permissions",
					"user_id", claims.GetUserID(),
					"error", err,
				)
				httputil.RespondError(w, http.StatusInternalServerError, "failed to resolve permissions")
				return
			}
			if !perms.IsActive {
				httputil.RespondError(w, http.StatusForbidden, "account is deactivated")
				return
			}

			r = httputil.WithUserID(r, claims.GetUserID())
			r = httputil.WithPermissions(r, perms)
			next.ServeHTTP(w, r)
		})
	}
}

// anonymousRead reports whether the request is one of the reads open to
// unauthenticated callers: article listing, a single article, and
// search. Version history stays authenticated because it may contain
// drafts of private content.
func anonymousRead(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	p := r.URL.Path
	if p == "/api/articles" || p == "/api/search" {
		return true
	}
	rest, ok := strings.CutPrefix(p, "/api/articles/")
	return ok && rest != "" && !strings.Contains(rest, "/")
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
