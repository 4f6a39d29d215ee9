package handler

import (
	"log/slog"
	"net/http"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/service"
)

// PublicHandler serves portfolio data for visitors. No auth; only items
// marked visible are returned.
type PublicHandler struct {
	portfolioService *service.PortfolioService
	logger           *slog.Logger
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(portfolioService *service.PortfolioService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// ServeHTTP handles GET /api/public/{username}/{resource}.
func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	resource := r.PathValue("resource")

	items, err := h.portfolioService.PublicList(r.Context(), username, resource)
	if err != nil {
		writeError(w, err)
		return
	}

	kind, _ := domain.ParseKind(resource)
	writeJSON(w, http.StatusOK, itemMaps(items, kind))
}
