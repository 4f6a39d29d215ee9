package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/harishas/autofolio/internal/storage"
)

// UploadHandler stores image uploads and serves them back by id.
type UploadHandler struct {
	blobs    storage.BlobStore
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(blobs storage.BlobStore, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		blobs:    blobs,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload handles POST /api/admin/upload. The multipart field name is
// "file"; the response carries the path the frontend stores in the item.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", slog.String("error", err.Error()))
		http.Error(w, "upload too large or unreadable", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	id, err := h.blobs.Put(r.Context(), contentType, data)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("upload stored",
		slog.String("id", id),
		slog.String("content_type", contentType),
		slog.Int("bytes", len(data)),
	)
	writeJSON(w, http.StatusOK, map[string]string{"filePath": "/uploads/" + id})
}

// Serve handles GET /uploads/{id}.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	blob, err := h.blobs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}
