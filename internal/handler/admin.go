package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/security/middleware"
	"github.com/harishas/autofolio/internal/service"
)

// AdminHandler serves the owner-facing portfolio management endpoints.
// Every method expects middleware.Authenticator to have attached the
// account already.
type AdminHandler struct {
	portfolioService *service.PortfolioService
	contactService   *service.ContactService
	logger           *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(portfolioService *service.PortfolioService, contactService *service.ContactService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		portfolioService: portfolioService,
		contactService:   contactService,
		logger:           logger,
	}
}

// View handles GET /api/admin/view/{resource}. Returns every item the
// owner has, hidden ones included. The pseudo-resource "messages" returns
// the contact inbox instead.
func (h *AdminHandler) View(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	resource := r.PathValue("resource")
	if resource == "messages" {
		messages, err := h.contactService.ListMessages(r.Context(), account)
		if err != nil {
			h.logger.Error("failed to list messages", slog.String("error", err.Error()))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messages)
		return
	}

	items, err := h.portfolioService.List(r.Context(), account, resource)
	if err != nil {
		writeError(w, err)
		return
	}

	kind, _ := domain.ParseKind(resource)
	writeJSON(w, http.StatusOK, itemMaps(items, kind))
}

// Save handles POST /api/admin/save. The body carries the target table,
// an optional id for updates, and the item fields at the top level. This
// mirrors what the admin frontend sends from its edit forms.
func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode save request", slog.String("error", err.Error()))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	table, _ := payload["table"].(string)
	if table == "" {
		http.Error(w, "table is required", http.StatusBadRequest)
		return
	}
	delete(payload, "table")

	id, err := extractID(payload["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	delete(payload, "id")

	item, err := h.portfolioService.Save(r.Context(), account, table, id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	kind, _ := domain.ParseKind(table)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"item":    item.Map(kind),
	})
}

// Delete handles DELETE /api/admin/delete/{resource}/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.portfolioService.Delete(r.Context(), account, r.PathValue("resource"), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type reorderRequest struct {
	Table      string `json:"table"`
	OrderedIDs []any  `json:"orderedIds"`
}

// Reorder handles POST /api/admin/reorder. Ids arrive as strings or
// numbers depending on which frontend widget produced them.
func (h *AdminHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode reorder request", slog.String("error", err.Error()))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ids := make([]int64, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := extractID(raw)
		if err != nil || id == 0 {
			http.Error(w, "invalid id in orderedIds", http.StatusBadRequest)
			return
		}
		ids = append(ids, id)
	}

	if err := h.portfolioService.Reorder(r.Context(), account, req.Table, ids); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// extractID tolerates JSON numbers and numeric strings. A missing or empty
// value yields 0; a value that is present but not numeric is an error so a
// garbled update id cannot silently turn into an insert.
func extractID(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(t), nil
	case string:
		if t == "" {
			return 0, nil
		}
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", t)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}

func itemMaps(items []*domain.Item, kind domain.Kind) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.Map(kind))
	}
	return out
}
