package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/identity"
	"github.com/harishas/autofolio/internal/observability/metrics"
	"github.com/harishas/autofolio/internal/reliability/circuitbreaker"
	"github.com/harishas/autofolio/internal/security/audit"
	"github.com/harishas/autofolio/internal/security/ratelimit"
)

type AccountContextKey struct{}

// Authenticator verifies bearer tokens and attaches the signed-in account
// to the request context. Token verification goes through a circuit breaker
// so an outage at the identity provider fails fast instead of piling up
// blocked requests.
type Authenticator struct {
	verifier identity.Verifier
	accounts domain.AccountRepository
	breaker  *circuitbreaker.CircuitBreaker
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAuthenticator creates the auth middleware.
func NewAuthenticator(verifier identity.Verifier, accounts domain.AccountRepository, timeout time.Duration, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		accounts: accounts,
		breaker:  circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second),
		timeout:  timeout,
		logger:   logger,
	}
}

// Require wraps a handler so it only runs for requests carrying a valid
// bearer token belonging to a registered account.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			metrics.ObserveAuthFailure("missing")
			http.Error(w, `{"error":"missing auth token"}`, http.StatusUnauthorized)
			return
		}

		token, err := identity.ExtractToken(authHeader)
		if err != nil {
			metrics.ObserveAuthFailure("malformed")
			http.Error(w, `{"error":"invalid auth header"}`, http.StatusUnauthorized)
			return
		}

		if !a.breaker.AllowRequest() {
			a.logger.Warn("identity verifier circuit open, rejecting request")
			metrics.ObserveAuthFailure("circuit_open")
			http.Error(w, `{"error":"auth temporarily unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		verifyCtx, cancel := context.WithTimeout(r.Context(), a.timeout)
		ident, err := a.verifier.Verify(verifyCtx, token)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				a.breaker.RecordFailure()
			}
			metrics.ObserveAuthFailure("invalid")
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		a.breaker.RecordSuccess()

		account, err := a.accounts.GetByEmail(r.Context(), ident.Email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				metrics.ObserveAuthFailure("unregistered")
				http.Error(w, `{"error":"account not registered"}`, http.StatusUnauthorized)
				return
			}
			a.logger.Error("account lookup failed", slog.String("error", err.Error()))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey{}, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAccountFromContext returns the authenticated account, or nil when the
// request did not pass through Require.
func GetAccountFromContext(ctx context.Context) *domain.Account {
	if a := ctx.Value(AccountContextKey{}); a != nil {
		return a.(*domain.Account)
	}
	return nil
}

// RateLimitMiddleware throttles unauthenticated traffic by client IP. It
// skips the probe endpoints and the authenticated owner surface; the latter
// is limited per account by RateLimitAccount so tenants sharing a NAT do
// not share a budget.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" ||
				strings.HasPrefix(r.URL.Path, "/api/admin/") || strings.HasPrefix(r.URL.Path, "/api/resume/") {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIPKey(r)
			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.String("path", r.URL.Path))
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			// Contact form gets a much tighter budget; it is the one
			// endpoint anonymous visitors can write through.
			if r.Method == http.MethodPost && r.URL.Path == "/api/contact" {
				if !limiter.AllowStrict(key, 5, time.Minute) {
					log.Warn("contact rate limit exceeded", slog.String("key", key))
					http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitAccount throttles the owner surface per account. It must run
// after Authenticator.Require so the account is already on the context;
// requests that somehow lack one fall back to the client IP.
func RateLimitAccount(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIPKey(r)
			if account := GetAccountFromContext(r.Context()); account != nil {
				key = "acct:" + account.Subdomain
			}
			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.String("path", r.URL.Path))
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// AuditMiddleware records mutating admin actions before they run.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if account := GetAccountFromContext(r.Context()); account != nil {
				switch {
				case r.Method == http.MethodPost && r.URL.Path == "/api/admin/save":
					auditLog.LogSave(r.Context(), account.Subdomain, "", "initiated")
				case r.Method == http.MethodDelete:
					auditLog.LogDelete(r.Context(), account.Subdomain, r.PathValue("resource"), r.PathValue("id"), "initiated")
				case r.Method == http.MethodPost && r.URL.Path == "/api/admin/reorder":
					auditLog.LogReorder(r.Context(), account.Subdomain, "", "initiated")
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
