package server

import (
	"fmt"
	"net/http"
	"strings"

	"clientdocs/internal/api"
	"clientdocs/internal/models"
)

func (s *Server) handleUpsertUploader(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathValueOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	var req api.UploaderUpsertRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	if req.ID != "" && req.ID != id {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("body id does not match path id")))
		return
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("display_name is required"), ErrCodeMissingRequired))
		return
	}

	uploader := &models.Uploader{ID: id, DisplayName: displayName}
	if err := s.store.UpsertUploader(r.Context(), uploader); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, api.UploaderResponse{ID: uploader.ID, DisplayName: uploader.DisplayName})
}
