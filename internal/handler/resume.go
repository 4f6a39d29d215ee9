package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/security/middleware"
	"github.com/harishas/autofolio/internal/service"
)

// ResumeHandler turns an uploaded resume PDF into portfolio items.
type ResumeHandler struct {
	resumeService *service.ResumeService
	maxBytes      int64
	logger        *slog.Logger
}

// NewResumeHandler creates a new resume handler.
func NewResumeHandler(resumeService *service.ResumeService, maxBytes int64, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{
		resumeService: resumeService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

func (h *ResumeHandler) readResume(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, _, err := r.FormFile("resume")
	if err != nil {
		http.Error(w, "resume field is required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read resume upload", slog.String("error", err.Error()))
		http.Error(w, "upload too large or unreadable", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// Parse handles POST /api/resume/parse. Extraction only; nothing is
// persisted, the frontend shows the result for review.
func (h *ResumeHandler) Parse(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readResume(w, r)
	if !ok {
		return
	}

	parsed, err := h.resumeService.Parse(r.Context(), data)
	if err != nil {
		h.logger.Error("resume parse failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to parse resume"})
		return
	}

	writeJSON(w, http.StatusOK, parsed)
}

// Import handles POST /api/resume/import: parse then persist every
// extracted item under the signed-in account.
func (h *ResumeHandler) Import(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	data, ok := h.readResume(w, r)
	if !ok {
		return
	}

	parsed, imported, err := h.resumeService.Import(r.Context(), account, data)
	if err != nil {
		h.logger.Error("resume import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to import resume"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"imported": imported,
		"parsed":   parsed,
	})
}
