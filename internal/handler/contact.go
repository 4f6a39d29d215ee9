package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/harishas/autofolio/internal/service"
)

// ContactRequest is a visitor message submitted through a public portfolio.
type ContactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	TargetUser string `json:"target_user"`
}

// ContactHandler accepts contact-form submissions for a portfolio owner.
type ContactHandler struct {
	contactService *service.ContactService
	logger         *slog.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// ServeHTTP handles POST /api/contact.
func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode contact request", slog.String("error", err.Error()))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		http.Error(w, "name, email and message are required", http.StatusBadRequest)
		return
	}

	// Single-tenant deployments never send target_user; keep the original
	// owner as the fallback recipient.
	target := req.TargetUser
	if target == "" {
		target = "harish"
	}

	msg, err := h.contactService.Submit(r.Context(), target, req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("contact message received",
		slog.String("target", target),
		slog.Int64("message_id", msg.ID),
	)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
