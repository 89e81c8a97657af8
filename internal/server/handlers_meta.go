package server

import (
	"net/http"

	"clientdocs/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.StoreInfo(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := api.InfoResponse{
		DBPath:        s.opts.DBPath,
		BlobBackend:   s.opts.BlobBackend,
		SchemaVersion: info.SchemaVersion,
		TotalUploads:  info.TotalUploads,
	}

	s.writeJSON(w, http.StatusOK, resp)
}
