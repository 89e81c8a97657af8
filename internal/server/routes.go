package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Per-client uploads.
	mux.HandleFunc("POST /v1/clients/{clientID}/uploads", s.handleCreateUpload)
	mux.HandleFunc("GET /v1/clients/{clientID}/uploads", s.handleListUploads)

	// Single upload.
	mux.HandleFunc("GET /v1/uploads/{id}", s.handleGetUpload)
	mux.HandleFunc("GET /v1/uploads/{id}/content", s.handleUploadContent)
	mux.HandleFunc("DELETE /v1/uploads/{id}", s.handleRemoveUpload)

	// Uploaders.
	mux.HandleFunc("PUT /v1/uploaders/{id}", s.handleUpsertUploader)

	// Admin.
	mux.HandleFunc("POST /v1/admin/sweep", s.requireAdmin(s.handleAdminSweep))

	return s.withRequestLogging(s.withAuth(mux))
}
