package server

import (
	"fmt"
	"net/http"
	"strings"

	"clientdocs/internal/auth"
)

// withAuth enforces the bearer API token when one is configured. The
// health endpoint stays open for probes.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || s.apiToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !auth.EqualTokens(s.apiToken, bearerToken(r)) {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid or missing api token")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates admin handlers behind the admin token. A bcrypt
// hash in the environment takes precedence over a plain token so the
// cleartext never has to be configured on the server side.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidate := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
		switch {
		case s.adminTokenHash != "":
			if !auth.VerifyTokenHash(s.adminTokenHash, candidate) {
				s.writeErrorReq(w, r, http.StatusForbidden, forbidden(fmt.Errorf("invalid admin token")))
				return
			}
		case s.adminToken != "":
			if !auth.EqualTokens(s.adminToken, candidate) {
				s.writeErrorReq(w, r, http.StatusForbidden, forbidden(fmt.Errorf("invalid admin token")))
				return
			}
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	value := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(value) <= len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}
