package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"clientdocs/internal/api"
	"clientdocs/internal/docstore"
	"clientdocs/internal/models"
)

func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.pathValueOrBadRequest(w, r, "clientID")
	if !ok {
		return
	}
	if err := models.ValidateClientID(clientID); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidClientID))
		return
	}

	s.withLimiter(w, r, s.uploadLimiter, "upload", func() {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
		if err := r.ParseMultipartForm(s.opts.MultipartMaxMemory); err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, classifyMultipartError(err))
			return
		}

		file, header, err := r.FormFile("content")
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(fmt.Errorf("content is required"), ErrCodeMissingRequired))
			return
		}
		defer file.Close()

		fileName := firstNonEmpty(strings.TrimSpace(r.FormValue("file_name")), header.Filename)
		if err := models.ValidateFileName(fileName); err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidFileName))
			return
		}
		uploadedBy := strings.TrimSpace(r.FormValue("uploaded_by"))
		if err := models.ValidateUploaderID(uploadedBy); err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
			return
		}

		buffered := bufio.NewReader(file)
		mimeType := strings.TrimSpace(r.FormValue("mime_type"))
		if mimeType == "" {
			peek, _ := buffered.Peek(512)
			mimeType = http.DetectContentType(peek)
		}

		rec, err := s.docs.Write(r.Context(), docstore.WriteRequest{
			ClientID:   clientID,
			FileName:   fileName,
			MimeType:   mimeType,
			SizeBytes:  header.Size,
			UploadedBy: uploadedBy,
			Content:    buffered,
		})
		if err != nil {
			s.writeDocstoreError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, api.UploadResponse{
			ID:         rec.ID,
			ClientID:   rec.ClientID,
			StorageKey: rec.StorageKey,
			FileName:   rec.FileName,
			MimeType:   rec.MimeType,
			SizeBytes:  rec.SizeBytes,
			UploadedBy: rec.UploadedBy,
			UploadedAt: rec.UploadedAt,
			PublicURL:  s.docs.PublicURL(rec.StorageKey),
		})
	})
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.pathValueOrBadRequest(w, r, "clientID")
	if !ok {
		return
	}
	if err := models.ValidateClientID(clientID); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidClientID))
		return
	}

	docs, err := s.docs.List(r.Context(), clientID)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := make([]api.UploadResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, uploadResponseFromDocument(doc))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathValueOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	doc, err := s.docs.Get(r.Context(), id)
	if err != nil {
		s.writeDocstoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, uploadResponseFromDocument(*doc))
}

func (s *Server) handleUploadContent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathValueOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	rc, rec, err := s.docs.OpenContent(r.Context(), id)
	if err != nil {
		s.writeDocstoreError(w, r, err)
		return
	}
	defer rc.Close()

	if rec.MimeType != "" {
		w.Header().Set("Content-Type", rec.MimeType)
	}
	if rec.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(rec.SizeBytes, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
	if _, err := io.Copy(w, rc); err != nil {
		s.log().Error("stream upload content", "upload_id", rec.ID, "error", err)
	}
}

func (s *Server) handleRemoveUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathValueOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	if err := s.docs.Remove(r.Context(), id); err != nil {
		s.writeDocstoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeDocstoreError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		blobWrite  *docstore.BlobWriteError
		blobDelete *docstore.BlobDeleteError
		metaWrite  *docstore.MetadataWriteError
		metaDelete *docstore.MetadataDeleteError
	)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		s.writeErrorReq(w, r, http.StatusNotFound, notFound(fmt.Errorf("upload not found")))
	case errors.As(err, &blobWrite), errors.As(err, &blobDelete):
		s.writeErrorReq(w, r, http.StatusInternalServerError, blobFailure(err))
	case errors.As(err, &metaWrite), errors.As(err, &metaDelete):
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
	default:
		if status := httpStatusFromError(err); status != http.StatusInternalServerError {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeErrorReq(w, r, http.StatusInternalServerError, internalError(err))
	}
}

func classifyMultipartError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return badRequestCode(fmt.Errorf("upload too large"), ErrCodeRequestTooLarge)
	}
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return badRequestCode(fmt.Errorf("upload too large"), ErrCodeRequestTooLarge)
	}
	return badRequest(fmt.Errorf("invalid multipart form: %w", err))
}

func uploadResponseFromDocument(doc docstore.Document) api.UploadResponse {
	return api.UploadResponse{
		ID:           doc.ID,
		ClientID:     doc.ClientID,
		StorageKey:   doc.StorageKey,
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		UploadedBy:   doc.UploadedBy,
		UploadedAt:   doc.UploadedAt,
		UploaderName: doc.UploaderName,
		PublicURL:    doc.PublicURL,
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
