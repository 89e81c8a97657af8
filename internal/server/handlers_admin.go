package server

import (
	"net/http"

	"clientdocs/internal/api"
)

// handleAdminSweep runs one reconciliation pass. A limiter keeps
// overlapping sweeps from probing the same rows twice; the pass itself
// is idempotent, so rejecting a concurrent trigger loses nothing.
func (s *Server) handleAdminSweep(w http.ResponseWriter, r *http.Request) {
	s.withLimiter(w, r, s.sweepLimiter, "sweep", func() {
		result, err := s.docs.Sweep(r.Context())
		if err != nil {
			s.writeErrorReq(w, r, http.StatusInternalServerError,
				makeAPIError(http.StatusInternalServerError, "internal", ErrCodeSweepFailed, err))
			return
		}

		s.writeJSON(w, http.StatusOK, api.SweepResponse{
			Scanned:   result.Scanned,
			Deleted:   result.Deleted,
			Ambiguous: result.Ambiguous,
			Failed:    result.Failed,
		})
	})
}
