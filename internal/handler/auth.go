package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harishas/autofolio/internal/identity"
	"github.com/harishas/autofolio/internal/service"
	"github.com/harishas/autofolio/pkg/config"
)

// AuthHandler handles sign-in and auth configuration discovery.
type AuthHandler struct {
	accountService *service.AccountService
	verifier       identity.Verifier
	logger         *slog.Logger
	config         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountService *service.AccountService, verifier identity.Verifier, logger *slog.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		verifier:       verifier,
		logger:         logger,
		config:         cfg,
	}
}

// Config handles GET /api/auth/config. The admin frontend fetches the
// client id here so it is never baked into static assets.
func (h *AuthHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"clientId": h.config.GoogleClientID,
		"provider": h.config.AuthProvider,
	})
}

type loginRequest struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	User    *loginUser `json:"user"`
}

type loginUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// Login handles POST /api/auth/google. The ID token may arrive in the JSON
// body or as a bearer header; both verify against the configured provider.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	token := req.Token
	if token == "" {
		if extracted, err := identity.ExtractToken(r.Header.Get("Authorization")); err == nil {
			token = extracted
		}
	}
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}

	ident, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		h.logger.Warn("login token rejected", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}

	account, err := h.accountService.LoginOrRegister(r.Context(), ident)
	if err != nil {
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: &loginUser{
			ID:        account.ID,
			Email:     account.Email,
			Name:      account.Name,
			Subdomain: account.Subdomain,
		},
	})
}
